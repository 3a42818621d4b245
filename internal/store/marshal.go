package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/soqlgen/internal/ir"
)

// marshalDiagnostics converts diagnostics to canonical JSON TEXT for storage.
func marshalDiagnostics(diags []ir.Diagnostic) (string, error) {
	if diags == nil {
		diags = []ir.Diagnostic{}
	}
	data, err := ir.MarshalCanonical(diags)
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	return string(data), nil
}

// unmarshalDiagnostics parses diagnostics TEXT. An empty array yields nil so
// a round trip of a clean generation compares equal.
func unmarshalDiagnostics(data string) ([]ir.Diagnostic, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var diags []ir.Diagnostic
	if err := json.Unmarshal([]byte(data), &diags); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	return diags, nil
}
