package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/soqlgen/internal/resolve"
)

// Suite is a corpus of questions with expected queries.
type Suite struct {
	// Name identifies the suite and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description,omitempty"`

	// Schema is a CUE or YAML schema path. Relative paths are resolved
	// against the suite file. Empty means the built-in sample schema.
	Schema string `yaml:"schema,omitempty"`

	// Options configures the engine for every case.
	Options Options `yaml:"options,omitempty"`

	Cases []Case `yaml:"cases"`
}

// Options mirrors the engine options a suite may set. Zero values keep the
// engine defaults.
type Options struct {
	DefaultObject    string `yaml:"default_object,omitempty"`
	MaxHops          int    `yaml:"max_hops,omitempty"`
	ConversionPolicy string `yaml:"conversion_policy,omitempty"`
	DefaultQuantity  *int   `yaml:"default_quantity,omitempty"`
}

// Case is one question and what its generation must look like.
type Case struct {
	Name     string `yaml:"name"`
	Question string `yaml:"question"`

	// Expect is the exact query.
	Expect string `yaml:"expect,omitempty"`

	// Contains and NotContains are substrings checked against the query.
	Contains    []string `yaml:"contains,omitempty"`
	NotContains []string `yaml:"not_contains,omitempty"`

	// Object is the expected root object.
	Object string `yaml:"object,omitempty"`

	// Diagnostics are the expected diagnostic codes in order. Nil skips
	// the check; an empty list requires a clean generation.
	Diagnostics []string `yaml:"diagnostics"`
}

// LoadSuite reads and parses a suite YAML file, resolving its schema path
// against the file's directory.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadSuite(path string) (*Suite, error) {
	return LoadSuiteWithBasePath(path, filepath.Dir(path))
}

// LoadSuiteWithBasePath reads and parses a suite YAML file, resolving the
// schema path relative to basePath.
func LoadSuiteWithBasePath(path, basePath string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	suite, err := ParseSuite(data)
	if err != nil {
		return nil, err
	}

	if suite.Schema != "" && !filepath.IsAbs(suite.Schema) && basePath != "" {
		suite.Schema = filepath.Join(basePath, suite.Schema)
	}
	if suite.Schema != "" {
		if _, err := os.Stat(suite.Schema); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid suite: schema file not found: %s", suite.Schema)
		}
	}

	return suite, nil
}

// ParseSuite decodes and validates a suite document. Schema paths are left
// as written.
func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return &suite, nil
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if s.Options.MaxHops < 0 {
		return fmt.Errorf("options.max_hops must be non-negative")
	}
	if q := s.Options.DefaultQuantity; q != nil && *q < 0 {
		return fmt.Errorf("options.default_quantity must be non-negative")
	}
	if _, err := resolve.ParsePolicy(s.Options.ConversionPolicy); err != nil {
		return fmt.Errorf("options.conversion_policy: %w", err)
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if err := validateCase(i, &c); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true
	}

	return nil
}

// validateCase checks a single case.
func validateCase(index int, c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}
	if c.Question == "" {
		return fmt.Errorf("cases[%d]: question is required", index)
	}
	if c.Expect == "" && len(c.Contains) == 0 && len(c.NotContains) == 0 && c.Object == "" && c.Diagnostics == nil {
		return fmt.Errorf("cases[%d]: at least one of expect, contains, not_contains, object or diagnostics is required", index)
	}
	return nil
}
