package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/soqlgen/internal/compiler"
	"github.com/roach88/soqlgen/internal/schema"
)

// LoadError represents an error that occurred during schema loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the source line of the error, or 0 when unknown.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// LoadSchema loads the schema at path: a CUE package directory, a .cue file
// or a YAML document. An empty path returns the built-in sample schema.
//
// Errors are *LoadError with ErrCodeSchemaLoad when the path cannot be read
// and ErrCodeSchemaInvalid when the document does not compile.
func LoadSchema(path string) (*schema.Graph, error) {
	if path == "" {
		return schema.Sample(), nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeSchemaLoad, Message: fmt.Sprintf("schema not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeSchemaLoad, Message: fmt.Sprintf("error accessing schema: %v", err)}
	}

	g, err := compiler.Load(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return g, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeSchemaInvalid,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeSchemaInvalid,
		Message: err.Error(),
	}
}

// exitCodeFor maps a load error to an exit code: unreadable paths are
// command errors, invalid documents are failures.
func exitCodeFor(err *LoadError) int {
	if err.Code == ErrCodeSchemaLoad {
		return ExitCommandError
	}
	return ExitFailure
}

// failLoad reports a schema load error through f.
func failLoad(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = convertCompileError(err)
	}
	var details any
	if line := loadErr.Line(); line > 0 {
		details = map[string]any{"file": loadErr.Pos.Filename(), "line": line}
	}
	_ = f.Error(loadErr.Code, loadErr.Message, details)
	return WrapExitError(exitCodeFor(loadErr), "failed to load schema", loadErr)
}
