package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/soqlgen/internal/schema"
)

// NewSchemaCommand creates the schema command and its subcommands.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Validate and inspect the schema graph",
	}

	cmd.AddCommand(NewValidateCommand(rootOpts))
	cmd.AddCommand(NewShowCommand(rootOpts))

	return cmd
}

// ObjectSummary is one object in the schema show listing.
type ObjectSummary struct {
	Name     string `json:"name"`
	Plural   string `json:"plural"`
	Fields   int    `json:"fields"`
	Children int    `json:"children"`
	Lookups  int    `json:"lookups"`
}

// ObjectDetail describes one object for schema show <object>.
type ObjectDetail struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Plural   string         `json:"plural"`
	Synonyms []string       `json:"synonyms,omitempty"`
	Defaults []string       `json:"defaults"`
	Sort     []string       `json:"sort,omitempty"`
	Fields   []schema.Field `json:"fields"`
	Children []schema.Edge  `json:"children"`
	Lookups  []schema.Edge  `json:"lookups"`
}

// NewShowCommand creates the schema show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [object]",
		Short: "List the schema's objects or describe one",
		Long: `Without an argument, list every object with its plural relationship name
and relationship counts. With an object name (case-insensitive), show its
fields, default fields, child relationships and lookups.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args, cmd)
		},
	}
}

func runShow(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	g, err := LoadSchema(cfg.Schema.Path)
	if err != nil {
		return failLoad(formatter, err)
	}

	if len(args) == 0 {
		summaries := summarizeObjects(g)
		if formatter.Format == "json" {
			return formatter.Success(summaries)
		}
		for _, s := range summaries {
			fmt.Fprintf(formatter.Writer, "%-20s %-22s %3d fields  %2d children  %2d lookups\n",
				s.Name, s.Plural, s.Fields, s.Children, s.Lookups)
		}
		return nil
	}

	obj, err := g.LookupObject(args[0])
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaLoad, fmt.Sprintf("unknown object %q", args[0]), err)
	}
	detail := describeObject(g, obj)
	if formatter.Format == "json" {
		return formatter.Success(detail)
	}
	writeObjectText(formatter.Writer, detail)
	return nil
}

func summarizeObjects(g *schema.Graph) []ObjectSummary {
	objects := g.Objects()
	out := make([]ObjectSummary, 0, len(objects))
	for _, obj := range objects {
		out = append(out, ObjectSummary{
			Name:     obj.Name,
			Plural:   g.Plural(obj.Name),
			Fields:   len(obj.Fields),
			Children: len(g.RelationshipsFrom(obj.Name)),
			Lookups:  len(g.RelationshipsTo(obj.Name)),
		})
	}
	return out
}

func describeObject(g *schema.Graph, obj *schema.Object) ObjectDetail {
	children := g.RelationshipsFrom(obj.Name)
	if children == nil {
		children = []schema.Edge{}
	}
	lookups := g.RelationshipsTo(obj.Name)
	if lookups == nil {
		lookups = []schema.Edge{}
	}
	return ObjectDetail{
		Name:     obj.Name,
		Label:    obj.Label,
		Plural:   g.Plural(obj.Name),
		Synonyms: obj.Synonyms,
		Defaults: obj.Defaults(),
		Sort:     obj.SortFields,
		Fields:   obj.Fields,
		Children: children,
		Lookups:  lookups,
	}
}

func writeObjectText(w io.Writer, d ObjectDetail) {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.Plural)
	if len(d.Synonyms) > 0 {
		fmt.Fprintf(w, "  synonyms: %s\n", strings.Join(d.Synonyms, ", "))
	}
	fmt.Fprintf(w, "  defaults: %s\n", joinOrNone(d.Defaults))
	if len(d.Sort) > 0 {
		fmt.Fprintf(w, "  sort:     %s\n", strings.Join(d.Sort, ", "))
	}

	fmt.Fprintln(w, "fields:")
	for _, f := range d.Fields {
		if f.IsReference() {
			fmt.Fprintf(w, "  %-24s %s -> %s\n", f.Name, f.Type, f.ReferenceTo)
			continue
		}
		fmt.Fprintf(w, "  %-24s %s\n", f.Name, f.Type)
	}

	if len(d.Children) > 0 {
		fmt.Fprintln(w, "children:")
		for _, e := range d.Children {
			fmt.Fprintf(w, "  %-24s %s.%s\n", e.Name, e.Child, e.ForeignKey)
		}
	}
	if len(d.Lookups) > 0 {
		fmt.Fprintln(w, "lookups:")
		for _, e := range d.Lookups {
			fmt.Fprintf(w, "  %-24s %s\n", e.ParentName(), e.Parent)
		}
	}
}
