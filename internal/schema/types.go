package schema

import "strings"

// FieldType is the semantic type of a field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeNumber    FieldType = "number"
	TypeDate      FieldType = "date"
	TypeBoolean   FieldType = "boolean"
	TypeReference FieldType = "reference"
	TypePicklist  FieldType = "picklist"
)

// ValidFieldTypes lists the accepted field types.
var ValidFieldTypes = map[FieldType]bool{
	TypeString:    true,
	TypeNumber:    true,
	TypeDate:      true,
	TypeBoolean:   true,
	TypeReference: true,
	TypePicklist:  true,
}

// Field describes one field of an object.
type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Synonyms []string  `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`

	// ReferenceTo names the parent object for reference fields.
	ReferenceTo string `json:"references,omitempty" yaml:"references,omitempty"`

	// RelationshipName overrides the derived child relationship name on the
	// parent (Account.ParentId -> "ChildAccounts").
	RelationshipName string `json:"relationship,omitempty" yaml:"relationship,omitempty"`
}

// IsReference reports whether the field points at a parent object.
func (f Field) IsReference() bool {
	return f.Type == TypeReference && f.ReferenceTo != ""
}

// Object describes a queryable object.
type Object struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Plural   string   `json:"plural,omitempty" yaml:"plural,omitempty"`
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Fields   []Field  `json:"fields" yaml:"fields"`

	// DefaultFields are selected when the question names no fields.
	DefaultFields []string `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// SortFields are candidate ORDER BY fields; the first is the metric
	// used by "top N" when the question names none.
	SortFields []string `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// Field returns the named field, matching case-insensitively.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// HasField reports whether the object declares the named field.
func (o *Object) HasField(name string) bool {
	_, ok := o.Field(name)
	return ok
}

// FieldNames returns every field name in declaration order.
func (o *Object) FieldNames() []string {
	names := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldsOfType returns the fields of the given type in declaration order.
func (o *Object) FieldsOfType(t FieldType) []Field {
	var out []Field
	for _, f := range o.Fields {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// Defaults returns the default display fields, falling back to Id and Name
// when present, then to the first declared field.
func (o *Object) Defaults() []string {
	if len(o.DefaultFields) > 0 {
		out := make([]string, len(o.DefaultFields))
		copy(out, o.DefaultFields)
		return out
	}
	var out []string
	for _, name := range []string{"Id", "Name"} {
		if f, ok := o.Field(name); ok {
			out = append(out, f.Name)
		}
	}
	if len(out) == 0 && len(o.Fields) > 0 {
		out = append(out, o.Fields[0].Name)
	}
	return out
}

// Edge is a directed relationship from a parent object to a child object.
type Edge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`

	// Name is the plural child relationship name ("Contacts").
	Name string `json:"name"`

	// ForeignKey is the reference field on the child ("AccountId").
	ForeignKey string `json:"field"`
}

// ParentName is the relationship name used for dot notation from the child
// ("AccountId" -> "Account", "Region__c" -> "Region__r").
func (e Edge) ParentName() string {
	return ParentRelationshipName(e.ForeignKey)
}

// ParentRelationshipName derives the dot-notation name of a foreign key.
func ParentRelationshipName(foreignKey string) string {
	switch {
	case strings.HasSuffix(foreignKey, "__c"):
		return strings.TrimSuffix(foreignKey, "__c") + "__r"
	case len(foreignKey) > 2 && strings.HasSuffix(foreignKey, "Id"):
		return strings.TrimSuffix(foreignKey, "Id")
	default:
		return foreignKey
	}
}
