package ir

import "fmt"

// DiagnosticCode identifies a recoverable condition met while building a query.
type DiagnosticCode string

const (
	// CodeUnrecognizedObject: no object phrase matched; the default object was used.
	CodeUnrecognizedObject DiagnosticCode = "UNRECOGNIZED_OBJECT"

	// CodeRelationshipNotFound: two mentioned objects are not connected.
	CodeRelationshipNotFound DiagnosticCode = "RELATIONSHIP_NOT_FOUND"

	// CodeUnknownField: a named field does not exist and was dropped.
	CodeUnknownField DiagnosticCode = "UNKNOWN_FIELD"

	// CodeMalformedNumericLiteral: a quantity failed to parse; the default was used.
	CodeMalformedNumericLiteral DiagnosticCode = "MALFORMED_NUMERIC_LITERAL"

	// CodeCyclicOrOverdeep: the only path between two objects exceeds the hop bound.
	CodeCyclicOrOverdeep DiagnosticCode = "CYCLIC_OR_OVERDEEP_RELATIONSHIP"

	// CodeStructuralWarning: the finished tree failed a structural check.
	CodeStructuralWarning DiagnosticCode = "STRUCTURAL_WARNING"
)

// Diagnostic records an element that was dropped or defaulted.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Message string         `json:"message"`
	Subject string         `json:"subject,omitempty"` // object, field or phrase concerned
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Subject)
}

// Diagnostics accumulates diagnostics for one request in the order raised.
// Identical entries are recorded once.
type Diagnostics struct {
	items []Diagnostic
}

// Add records a diagnostic.
func (d *Diagnostics) Add(code DiagnosticCode, subject, format string, args ...any) {
	diag := Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Subject: subject}
	for _, existing := range d.items {
		if existing == diag {
			return
		}
	}
	d.items = append(d.items, diag)
}

// Items returns a copy of the recorded diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// Has reports whether a diagnostic with the given code was recorded.
func (d *Diagnostics) Has(code DiagnosticCode) bool {
	for _, item := range d.items {
		if item.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the codes of the given diagnostics in order.
func Codes(diags []Diagnostic) []string {
	codes := make([]string, len(diags))
	for i, d := range diags {
		codes[i] = string(d.Code)
	}
	return codes
}
