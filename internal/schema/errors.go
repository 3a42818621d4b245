package schema

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound is returned by LookupObject for unknown names.
var ErrObjectNotFound = errors.New("object not found")

// PathErrorCode distinguishes why FindPath failed.
type PathErrorCode string

const (
	// PathNotFound: no directed path exists between the objects.
	PathNotFound PathErrorCode = "PATH_NOT_FOUND"

	// PathTooDeep: a path exists but needs more hops than allowed.
	PathTooDeep PathErrorCode = "PATH_TOO_DEEP"
)

// PathError is returned by FindPath.
type PathError struct {
	Code    PathErrorCode
	From    string
	To      string
	MaxHops int
	Hops    int // length of the shortest path when Code is PathTooDeep
}

// Error implements the error interface.
func (e *PathError) Error() string {
	switch e.Code {
	case PathTooDeep:
		return fmt.Sprintf("[%s] path from %s to %s needs %d hops, limit is %d", e.Code, e.From, e.To, e.Hops, e.MaxHops)
	default:
		return fmt.Sprintf("[%s] no path from %s to %s", e.Code, e.From, e.To)
	}
}

// IsPathNotFound reports whether err is a PathError with code PathNotFound.
func IsPathNotFound(err error) bool {
	var pe *PathError
	return errors.As(err, &pe) && pe.Code == PathNotFound
}

// IsPathTooDeep reports whether err is a PathError with code PathTooDeep.
func IsPathTooDeep(err error) bool {
	var pe *PathError
	return errors.As(err, &pe) && pe.Code == PathTooDeep
}

// BuildError collects every problem found while building a graph.
type BuildError struct {
	Problems []string
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if len(e.Problems) == 1 {
		return "schema: " + e.Problems[0]
	}
	return fmt.Sprintf("schema: %d problems, first: %s", len(e.Problems), e.Problems[0])
}
