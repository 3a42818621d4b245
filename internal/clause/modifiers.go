package clause

import (
	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/queryir"
)

// accessModes are mutually exclusive; the first requested wins.
var accessModes = []struct {
	kind intent.ModifierKind
	mod  queryir.Modifier
}{
	{intent.UserMode, queryir.ModUserMode},
	{intent.SecurityEnforced, queryir.ModSecurityEnforced},
	{intent.SystemMode, queryir.ModSystemMode},
}

// lockModes are mutually exclusive; the first requested wins.
var lockModes = []struct {
	kind intent.ModifierKind
	mod  queryir.Modifier
}{
	{intent.ForUpdate, queryir.ModForUpdate},
	{intent.ForReference, queryir.ModForReference},
	{intent.ForView, queryir.ModForView},
}

// Modifier adds access, ALL ROWS and locking modifiers to the root only.
type Modifier struct{}

func (Modifier) Name() string           { return "modifiers" }
func (Modifier) Capability() Capability { return Modifiers }

func (Modifier) CanHandle(in *intent.Intent) bool {
	return len(in.Modifiers) > 0
}

func (Modifier) Apply(c *Context) {
	requested := make(map[intent.ModifierKind]bool, len(c.Intent.Modifiers))
	for _, m := range c.Intent.Modifiers {
		requested[m.Kind] = true
	}

	for _, am := range accessModes {
		if requested[am.kind] {
			c.Root.AddModifier(am.mod)
			break
		}
	}
	if requested[intent.AllRows] {
		c.Root.AddModifier(queryir.ModAllRows)
	}
	for _, lm := range lockModes {
		if requested[lm.kind] {
			c.Root.AddModifier(lm.mod)
			break
		}
	}
}
