package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/soqlgen/internal/schema"
)

// CompileSchema builds a graph from a CUE schema document:
//
//	objects: [{
//		name:     "Account"
//		synonyms: ["company"]
//		defaults: ["Id", "Name"]
//		fields: [
//			{name: "Id", type: "string"},
//			{name: "OwnerId", type: "reference", references: "User"},
//		]
//	}]
//	relationships: [{parent: "Account", child: "Contact", field: "AccountId"}]
//	plurals: {Person: "People"}
//
// Objects and fields are lists so that declaration order survives; order
// drives default field selection and relationship tie-breaking.
func CompileSchema(v cue.Value) (*schema.Graph, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	b := schema.NewBuilder()

	plurals, err := parsePlurals(v)
	if err != nil {
		return nil, err
	}
	b.WithPluralizer(schema.NewPluralizer(plurals))

	objectsVal := v.LookupPath(cue.ParsePath("objects"))
	if !objectsVal.Exists() {
		return nil, &CompileError{Field: "objects", Message: "objects is required", Pos: v.Pos()}
	}
	iter, err := objectsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		obj, err := parseObject(iter.Value())
		if err != nil {
			return nil, err
		}
		b.AddObject(obj)
	}

	relsVal := v.LookupPath(cue.ParsePath("relationships"))
	if relsVal.Exists() {
		rels, err := relsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for rels.Next() {
			edge, err := parseRelationship(rels.Value())
			if err != nil {
				return nil, err
			}
			b.AddRelationship(edge)
		}
	}

	return b.Build()
}

func parseObject(v cue.Value) (schema.Object, error) {
	var obj schema.Object
	var err error

	if obj.Name, err = requiredString(v, "name"); err != nil {
		return obj, err
	}
	if obj.Label, err = optionalString(v, "label"); err != nil {
		return obj, err
	}
	if obj.Plural, err = optionalString(v, "plural"); err != nil {
		return obj, err
	}
	if obj.Synonyms, err = stringList(v, "synonyms"); err != nil {
		return obj, err
	}
	if obj.DefaultFields, err = stringList(v, "defaults"); err != nil {
		return obj, err
	}
	if obj.SortFields, err = stringList(v, "sort"); err != nil {
		return obj, err
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return obj, &CompileError{
			Field:   fmt.Sprintf("objects.%s.fields", obj.Name),
			Message: "fields is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := fieldsVal.List()
	if err != nil {
		return obj, formatCUEError(err)
	}
	for iter.Next() {
		f, err := parseField(iter.Value(), obj.Name)
		if err != nil {
			return obj, err
		}
		obj.Fields = append(obj.Fields, f)
	}
	return obj, nil
}

func parseField(v cue.Value, object string) (schema.Field, error) {
	var f schema.Field
	var err error

	if f.Name, err = requiredString(v, "name"); err != nil {
		return f, err
	}
	typ, err := requiredString(v, "type")
	if err != nil {
		return f, err
	}
	f.Type = schema.FieldType(typ)
	if !schema.ValidFieldTypes[f.Type] {
		return f, &CompileError{
			Field:   fmt.Sprintf("%s.%s.type", object, f.Name),
			Message: fmt.Sprintf("unknown field type %q", typ),
			Pos:     v.LookupPath(cue.ParsePath("type")).Pos(),
		}
	}
	if f.Label, err = optionalString(v, "label"); err != nil {
		return f, err
	}
	if f.Synonyms, err = stringList(v, "synonyms"); err != nil {
		return f, err
	}
	if f.ReferenceTo, err = optionalString(v, "references"); err != nil {
		return f, err
	}
	if f.RelationshipName, err = optionalString(v, "relationship"); err != nil {
		return f, err
	}
	if f.Type == schema.TypeReference && f.ReferenceTo == "" {
		return f, &CompileError{
			Field:   fmt.Sprintf("%s.%s.references", object, f.Name),
			Message: "reference fields must name the referenced object",
			Pos:     v.Pos(),
		}
	}
	return f, nil
}

func parseRelationship(v cue.Value) (schema.Edge, error) {
	var e schema.Edge
	var err error

	if e.Parent, err = requiredString(v, "parent"); err != nil {
		return e, err
	}
	if e.Child, err = requiredString(v, "child"); err != nil {
		return e, err
	}
	if e.ForeignKey, err = requiredString(v, "field"); err != nil {
		return e, err
	}
	if e.Name, err = optionalString(v, "name"); err != nil {
		return e, err
	}
	return e, nil
}

func parsePlurals(v cue.Value) (map[string]string, error) {
	pluralsVal := v.LookupPath(cue.ParsePath("plurals"))
	if !pluralsVal.Exists() {
		return nil, nil
	}
	iter, err := pluralsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := make(map[string]string)
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out[iter.Selector().String()] = s
	}
	return out, nil
}

func requiredString(v cue.Value, path string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return "", &CompileError{Field: path, Message: path + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, path string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(v cue.Value, path string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}
