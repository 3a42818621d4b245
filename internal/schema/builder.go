package schema

import (
	"fmt"
	"strings"
)

// Builder assembles a Graph. Problems are collected and reported together
// by Build.
type Builder struct {
	objects  []Object
	explicit []Edge
	plurals  *Pluralizer
}

// NewBuilder creates an empty builder with the default pluralizer.
func NewBuilder() *Builder {
	return &Builder{plurals: NewPluralizer(nil)}
}

// WithPluralizer replaces the pluralizer used for derived names.
func (b *Builder) WithPluralizer(p *Pluralizer) *Builder {
	b.plurals = p
	return b
}

// AddObject registers an object. Registration order is significant: it
// orders derived relationships and breaks path-search ties.
func (b *Builder) AddObject(obj Object) *Builder {
	b.objects = append(b.objects, cloneObject(obj))
	return b
}

// AddRelationship registers an explicit edge. Explicit edges precede
// edges derived from reference fields. An empty Name is derived from the
// child's plural.
func (b *Builder) AddRelationship(e Edge) *Builder {
	b.explicit = append(b.explicit, e)
	return b
}

// Build validates the registered objects and edges and returns the graph.
func (b *Builder) Build() (*Graph, error) {
	var problems []string
	problemf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(b.objects) == 0 {
		problemf("graph declares no objects")
	}

	g := &Graph{
		objects: make(map[string]*Object, len(b.objects)),
		from:    make(map[string][]int),
		to:      make(map[string][]int),
		plurals: b.plurals,
	}

	for i := range b.objects {
		copied := cloneObject(b.objects[i])
		obj := &copied
		key := strings.ToLower(obj.Name)
		if obj.Name == "" {
			problemf("object #%d has no name", i)
			continue
		}
		if _, dup := g.objects[key]; dup {
			problemf("object %s declared twice", obj.Name)
			continue
		}
		problems = append(problems, validateObject(obj)...)
		if obj.Plural != "" {
			g.plurals.Override(obj.Name, obj.Plural)
		}
		g.objects[key] = obj
		g.order = append(g.order, obj.Name)
	}

	for _, obj := range g.Objects() {
		for _, f := range obj.Fields {
			if f.IsReference() && !g.HasObject(f.ReferenceTo) {
				problemf("%s.%s references unknown object %s", obj.Name, f.Name, f.ReferenceTo)
			}
		}
	}

	covered := make(map[string]bool)
	for _, e := range b.explicit {
		parent, perr := g.LookupObject(e.Parent)
		child, cerr := g.LookupObject(e.Child)
		if perr != nil || cerr != nil {
			problemf("relationship %s -> %s names an unknown object", e.Parent, e.Child)
			continue
		}
		fk, ok := child.Field(e.ForeignKey)
		if !ok {
			problemf("relationship %s -> %s: %s has no field %s", e.Parent, e.Child, child.Name, e.ForeignKey)
			continue
		}
		edge := Edge{Parent: parent.Name, Child: child.Name, Name: e.Name, ForeignKey: fk.Name}
		if edge.Name == "" {
			edge.Name = g.plurals.Plural(child.Name)
		}
		covered[strings.ToLower(child.Name+"."+fk.Name)] = true
		g.addEdge(edge)
	}

	for _, child := range g.Objects() {
		for _, f := range child.Fields {
			if !f.IsReference() || covered[strings.ToLower(child.Name+"."+f.Name)] {
				continue
			}
			parent, err := g.LookupObject(f.ReferenceTo)
			if err != nil {
				continue // reported above
			}
			name := f.RelationshipName
			if name == "" {
				name = g.plurals.Plural(child.Name)
			}
			g.addEdge(Edge{Parent: parent.Name, Child: child.Name, Name: name, ForeignKey: f.Name})
		}
	}

	for _, obj := range g.Objects() {
		seen := make(map[string]bool)
		for _, e := range g.RelationshipsFrom(obj.Name) {
			key := strings.ToLower(e.Name)
			if seen[key] {
				problemf("%s has two child relationships named %s", obj.Name, e.Name)
			}
			seen[key] = true
		}
	}

	if len(problems) > 0 {
		return nil, &BuildError{Problems: problems}
	}
	return g, nil
}

func (g *Graph) addEdge(e Edge) {
	n := len(g.edges)
	g.edges = append(g.edges, e)
	parent := strings.ToLower(e.Parent)
	child := strings.ToLower(e.Child)
	g.from[parent] = append(g.from[parent], n)
	g.to[child] = append(g.to[child], n)
}

func validateObject(obj *Object) []string {
	var problems []string
	if len(obj.Fields) == 0 {
		problems = append(problems, fmt.Sprintf("object %s declares no fields", obj.Name))
	}
	seen := make(map[string]bool, len(obj.Fields))
	for _, f := range obj.Fields {
		key := strings.ToLower(f.Name)
		switch {
		case f.Name == "":
			problems = append(problems, fmt.Sprintf("object %s has a field with no name", obj.Name))
		case seen[key]:
			problems = append(problems, fmt.Sprintf("field %s.%s declared twice", obj.Name, f.Name))
		case !ValidFieldTypes[f.Type]:
			problems = append(problems, fmt.Sprintf("field %s.%s has invalid type %q", obj.Name, f.Name, f.Type))
		case f.Type == TypeReference && f.ReferenceTo == "":
			problems = append(problems, fmt.Sprintf("reference field %s.%s names no object", obj.Name, f.Name))
		}
		seen[key] = true
	}
	for _, name := range obj.DefaultFields {
		if !obj.HasField(name) {
			problems = append(problems, fmt.Sprintf("default field %s.%s is not declared", obj.Name, name))
		}
	}
	for _, name := range obj.SortFields {
		if !obj.HasField(name) {
			problems = append(problems, fmt.Sprintf("sort field %s.%s is not declared", obj.Name, name))
		}
	}
	return problems
}

func cloneObject(obj Object) Object {
	out := obj
	out.Synonyms = append([]string(nil), obj.Synonyms...)
	out.DefaultFields = append([]string(nil), obj.DefaultFields...)
	out.SortFields = append([]string(nil), obj.SortFields...)
	out.Fields = make([]Field, len(obj.Fields))
	for i, f := range obj.Fields {
		f.Synonyms = append([]string(nil), f.Synonyms...)
		out.Fields[i] = f
	}
	return out
}
