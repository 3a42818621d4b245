package clause

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/schema"
)

// maxTypoDistance bounds typo correction of explicitly listed field names.
const maxTypoDistance = 2

// Target is a field placed on the node whose query carries it.
type Target struct {
	Node  *queryir.Node
	Field string // "Industry", or "Account.Industry" through a lookup
	Type  schema.FieldType
}

// place is somewhere an object's fields can be referenced from: a node of
// that object (bare names) or a node that reaches it through a lookup
// (dot notation).
type place struct {
	object string
	node   *queryir.Node
	prefix string
}

func (p place) target(f schema.Field) Target {
	name := f.Name
	if p.prefix != "" {
		name = p.prefix + "." + f.Name
	}
	return Target{Node: p.node, Field: name, Type: f.Type}
}

// placeFor finds where object's fields can be referenced: its node in the
// tree, a resolved lookup, or a lookup from the root.
func (c *Context) placeFor(object string) (place, bool) {
	if object == "" {
		return place{}, false
	}
	if n := c.Root.Find(object); n != nil {
		return place{object: n.Object, node: n}, true
	}
	if l, ok := c.Resolution.LookupFor(object); ok {
		return place{object: l.Object, node: l.Node, prefix: l.Prefix}, true
	}
	for _, e := range c.Graph().RelationshipsTo(c.Root.Object) {
		if strings.EqualFold(e.Parent, object) {
			return place{object: e.Parent, node: c.Root, prefix: e.ParentName()}, true
		}
	}
	return place{}, false
}

// places lists candidate places in preference order: the explicit prefix,
// the object the wording attaches to, the root, the other tree nodes, the
// resolved lookups and finally the root's parents.
func (c *Context) places(prefix, near string) []place {
	var out []place
	for _, object := range []string{prefix, near} {
		if p, ok := c.placeFor(object); ok {
			out = append(out, p)
		}
	}
	for _, n := range c.Root.Nodes() {
		out = append(out, place{object: n.Object, node: n})
	}
	for _, l := range c.Resolution.Lookups {
		out = append(out, place{object: l.Object, node: l.Node, prefix: l.Prefix})
	}
	for _, e := range c.Graph().RelationshipsTo(c.Root.Object) {
		out = append(out, place{object: e.Parent, node: c.Root, prefix: e.ParentName()})
	}
	return out
}

// ResolveMention places a field mention. near is the object the
// surrounding words attach it to, or empty.
func (c *Context) ResolveMention(fm intent.FieldMention, near string) (Target, bool) {
	for _, p := range c.places(fm.Prefix, near) {
		if ref, ok := fm.Candidate(p.object); ok {
			return p.target(ref.Field), true
		}
	}
	return Target{}, false
}

// ResolveName places the first of names that exists on the near object,
// or failing that on the root.
func (c *Context) ResolveName(near string, names ...string) (Target, bool) {
	for _, object := range []string{near, c.Root.Object} {
		p, ok := c.placeFor(object)
		if !ok {
			continue
		}
		obj := c.object(p.object)
		if obj == nil {
			continue
		}
		for _, name := range names {
			if f, ok := obj.Field(name); ok {
				return p.target(f), true
			}
		}
	}
	return Target{}, false
}

// nearObject returns the object of the last mention ending at or before
// token i.
func (c *Context) nearObject(i int) string {
	near := ""
	for _, m := range c.Intent.Mentions {
		if m.End <= i {
			near = m.Object
		}
	}
	return near
}

// covered reports whether token i lies inside a field mention.
func (c *Context) covered(i int) bool {
	for _, fm := range c.Intent.FieldMentions {
		if i >= fm.Start && i < fm.End {
			return true
		}
	}
	return false
}

// fieldNamed resolves one item of an explicit field list against object:
// a surface form of its own fields, a parent field written with the parent
// name in front ("account name" on Contact), or a near miss within
// maxTypoDistance edits.
func (c *Context) fieldNamed(object, item string) (string, bool) {
	if f, ok := c.Vocab.Field(object, item); ok {
		return f.Name, true
	}
	for _, e := range c.Graph().RelationshipsTo(object) {
		rest, ok := strings.CutPrefix(item, intent.Spaced(e.ParentName())+" ")
		if !ok {
			continue
		}
		if f, ok := c.Vocab.Field(e.Parent, rest); ok {
			return e.ParentName() + "." + f.Name, true
		}
	}
	if utf8.RuneCountInString(item) < 4 {
		return "", false
	}
	best, bestDistance := "", maxTypoDistance+1
	for _, form := range c.Vocab.FieldForms(object) {
		if d := fuzzy.LevenshteinDistance(item, form); d < bestDistance {
			best, bestDistance = form, d
		}
	}
	if best == "" {
		return "", false
	}
	f, _ := c.Vocab.Field(object, best)
	return f.Name, true
}
