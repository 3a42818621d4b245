package clause

import (
	"github.com/jzelinskie/stringz"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
)

// FieldSelection fills every node's select list: all fields or the named
// fields for the object the question asks about, default fields elsewhere,
// and the name of each lookup parent.
type FieldSelection struct{}

func (FieldSelection) Name() string           { return "fields" }
func (FieldSelection) Capability() Capability { return Fields }

func (FieldSelection) CanHandle(*intent.Intent) bool { return true }

func (FieldSelection) Apply(c *Context) {
	in := c.Intent
	target := c.Root
	if in.FieldTarget != "" {
		if n := c.Root.Find(in.FieldTarget); n != nil {
			target = n
		}
	}

	var explicit []string
	switch {
	case in.AllFields:
		if obj := c.object(target.Object); obj != nil {
			explicit = obj.FieldNames()
		}
	case len(in.FieldPhrase) > 0:
		for _, item := range in.FieldPhrase {
			name, ok := c.fieldNamed(target.Object, item)
			if !ok {
				c.Diags.Add(ir.CodeUnknownField, item, "%s has no field %q; omitted", target.Object, item)
				continue
			}
			explicit = append(explicit, name)
		}
	}
	explicit = stringz.Dedup(explicit)

	for _, n := range c.Root.Nodes() {
		if n == target && len(explicit) > 0 {
			n.AddFields(explicit...)
			continue
		}
		if obj := c.object(n.Object); obj != nil {
			n.AddFields(obj.Defaults()...)
		}
	}

	for _, l := range c.Resolution.Lookups {
		if parent := c.object(l.Object); parent != nil && parent.HasField("Name") {
			l.Node.AddFields(l.Prefix + ".Name")
		}
	}
}
