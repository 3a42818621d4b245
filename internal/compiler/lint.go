package compiler

import (
	"fmt"

	"github.com/roach88/soqlgen/internal/schema"
)

// Lint reports findings that do not prevent a graph from being used but
// degrade question resolution: cycles, objects with no date field (date
// phrases are ignored for them), objects without declared defaults, and
// objects no relationship touches.
func Lint(g *schema.Graph) []Warning {
	warnings := AnalyzeCycles(g)

	for _, obj := range g.Objects() {
		if len(obj.DefaultFields) == 0 {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("%s declares no default fields; using %v", obj.Name, obj.Defaults()),
				Level:   "info",
			})
		}
		if len(obj.FieldsOfType(schema.TypeDate)) == 0 {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("%s has no date field; date phrases will not filter it", obj.Name),
				Level:   "info",
			})
		}
		if len(g.RelationshipsFrom(obj.Name)) == 0 && len(g.RelationshipsTo(obj.Name)) == 0 && len(g.Objects()) > 1 {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("%s is not related to any other object", obj.Name),
				Level:   "info",
			})
		}
	}
	return warnings
}
