package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/soqlgen/internal/schema"
)

// Document is the YAML form of a schema. It mirrors the CUE layout.
type Document struct {
	Objects       []schema.Object    `yaml:"objects"`
	Relationships []RelationshipSpec `yaml:"relationships,omitempty"`
	Plurals       map[string]string  `yaml:"plurals,omitempty"`
}

// RelationshipSpec declares an explicit parent-to-child edge.
type RelationshipSpec struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
	Field  string `yaml:"field"`
	Name   string `yaml:"name,omitempty"`
}

// CompileYAML builds a graph from a YAML schema document. Unknown keys are
// rejected so typos surface instead of silently dropping data.
func CompileYAML(data []byte) (*schema.Graph, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Field: "yaml", Message: "document is empty"}
		}
		return nil, &CompileError{Field: "yaml", Message: err.Error()}
	}
	return doc.Graph()
}

// Graph converts the document into a graph.
func (d *Document) Graph() (*schema.Graph, error) {
	if len(d.Objects) == 0 {
		return nil, &CompileError{Field: "objects", Message: "objects is required"}
	}

	b := schema.NewBuilder().WithPluralizer(schema.NewPluralizer(d.Plurals))
	for _, obj := range d.Objects {
		for _, f := range obj.Fields {
			if f.Type == schema.TypeReference && f.ReferenceTo == "" {
				return nil, &CompileError{
					Field:   fmt.Sprintf("%s.%s.references", obj.Name, f.Name),
					Message: "reference fields must name the referenced object",
				}
			}
		}
		b.AddObject(obj)
	}
	for _, rel := range d.Relationships {
		b.AddRelationship(schema.Edge{Parent: rel.Parent, Child: rel.Child, Name: rel.Name, ForeignKey: rel.Field})
	}
	return b.Build()
}
