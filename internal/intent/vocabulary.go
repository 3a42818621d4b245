package intent

import (
	"strings"
	"unicode"

	"github.com/ettle/strcase"

	"github.com/roach88/soqlgen/internal/schema"
)

// stopForms are surface forms never registered because they collide with
// ordinary question words (WhoId -> "who").
var stopForms = map[string]bool{
	"who": true, "what": true, "which": true, "when": true, "where": true,
	"is": true, "a": true, "an": true, "the": true,
}

// FieldRef names one field of one object.
type FieldRef struct {
	Object string
	Field  schema.Field
}

// Vocabulary maps surface forms (lower-case words and phrases) to the
// objects and fields of a graph. It is immutable once built.
type Vocabulary struct {
	graph    *schema.Graph
	objects  map[string]string             // form -> object name
	fields   map[string][]FieldRef         // form -> candidates, registration order
	byObject map[string]map[string]string  // lower object -> form -> field name
	formsOf  map[string][]string           // lower object -> field forms in order
	booleans map[string][]booleanAdjective // lower object -> adjectives
	maxWords int
}

// booleanAdjective is a word that, placed before an object, filters on a
// boolean field ("closed opportunities", "inactive users").
type booleanAdjective struct {
	word  string
	field string
	value bool
}

// antonyms maps adjectives to the stem they negate.
var antonyms = map[string]string{
	"open":        "closed",
	"unpublished": "published",
	"lost":        "won",
}

// NewVocabulary builds the surface forms of every object and field in g.
func NewVocabulary(g *schema.Graph) *Vocabulary {
	v := &Vocabulary{
		graph:    g,
		objects:  make(map[string]string),
		fields:   make(map[string][]FieldRef),
		byObject: make(map[string]map[string]string),
		formsOf:  make(map[string][]string),
		booleans: make(map[string][]booleanAdjective),
		maxWords: 1,
	}
	for _, obj := range g.Objects() {
		for _, form := range objectForms(g, obj) {
			v.addObjectForm(form, obj.Name)
		}
		key := strings.ToLower(obj.Name)
		v.byObject[key] = make(map[string]string)
		for _, f := range obj.Fields {
			for _, form := range fieldForms(g, f) {
				v.addFieldForm(form, obj.Name, f)
			}
			if f.Type == schema.TypeBoolean {
				v.booleans[key] = append(v.booleans[key], adjectivesFor(f)...)
			}
		}
	}
	return v
}

func (v *Vocabulary) addObjectForm(form, object string) {
	if form == "" || stopForms[form] {
		return
	}
	if _, exists := v.objects[form]; !exists {
		v.objects[form] = object
	}
	v.maxWords = max(v.maxWords, len(strings.Fields(form)))
}

func (v *Vocabulary) addFieldForm(form, object string, f schema.Field) {
	if form == "" || stopForms[form] {
		return
	}
	key := strings.ToLower(object)
	if _, exists := v.byObject[key][form]; exists {
		return
	}
	v.byObject[key][form] = f.Name
	v.formsOf[key] = append(v.formsOf[key], form)
	v.fields[form] = append(v.fields[form], FieldRef{Object: object, Field: f})
	v.maxWords = max(v.maxWords, len(strings.Fields(form)))
}

// Graph returns the graph the vocabulary was built from.
func (v *Vocabulary) Graph() *schema.Graph {
	return v.graph
}

// Object returns the object a surface form names.
func (v *Vocabulary) Object(form string) (string, bool) {
	name, ok := v.objects[form]
	return name, ok
}

// Fields returns every field a surface form may name, in registration order.
func (v *Vocabulary) Fields(form string) []FieldRef {
	return v.fields[form]
}

// Field resolves a surface form against one object's fields.
func (v *Vocabulary) Field(object, form string) (schema.Field, bool) {
	name, ok := v.byObject[strings.ToLower(object)][strings.ToLower(form)]
	if !ok {
		return schema.Field{}, false
	}
	obj, err := v.graph.LookupObject(object)
	if err != nil {
		return schema.Field{}, false
	}
	return obj.Field(name)
}

// FieldForms returns every surface form of an object's fields.
func (v *Vocabulary) FieldForms(object string) []string {
	forms := v.formsOf[strings.ToLower(object)]
	out := make([]string, len(forms))
	copy(out, forms)
	return out
}

// BooleanAdjective resolves an adjective placed before an object mention
// to a boolean field and value: "closed" -> IsClosed = true,
// "open" -> IsClosed = false, "inactive" -> IsActive = false.
func (v *Vocabulary) BooleanAdjective(object, word string) (string, bool, bool) {
	for _, adj := range v.booleans[strings.ToLower(object)] {
		if adj.word == word {
			return adj.field, adj.value, true
		}
	}
	return "", false, false
}

// MaxWords is the number of words in the longest surface form.
func (v *Vocabulary) MaxWords() int {
	return v.maxWords
}

// Spaced splits an identifier into lower-case words:
// "QuoteLineItem" -> "quote line item", "Product2Id" -> "product id",
// "Region__c" -> "region".
func Spaced(name string) string {
	name = strings.TrimSuffix(strings.TrimSuffix(name, "__c"), "__r")
	snake := strcase.ToSnake(name)
	snake = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return '_'
		}
		return r
	}, snake)
	words := strings.FieldsFunc(snake, func(r rune) bool { return r == '_' || r == ' ' })
	return strings.ToLower(strings.Join(words, " "))
}

func objectForms(g *schema.Graph, obj *schema.Object) []string {
	base := []string{strings.ToLower(obj.Name), Spaced(obj.Name), strings.ToLower(obj.Label)}
	for _, syn := range obj.Synonyms {
		base = append(base, strings.ToLower(syn))
	}

	var forms []string
	for _, b := range base {
		if b == "" {
			continue
		}
		forms = append(forms, b, strings.ToLower(g.Plural(b)))
	}
	plural := g.Plural(obj.Name)
	if obj.Plural != "" {
		plural = obj.Plural
	}
	forms = append(forms, strings.ToLower(plural), Spaced(plural))
	return forms
}

func fieldForms(g *schema.Graph, f schema.Field) []string {
	spaced := Spaced(f.Name)
	base := []string{strings.ToLower(f.Name), spaced, strings.ToLower(f.Label)}
	for _, syn := range f.Synonyms {
		base = append(base, strings.ToLower(syn))
	}

	var forms []string
	for _, b := range base {
		if b == "" {
			continue
		}
		forms = append(forms, b)
		if f.Type != schema.TypeBoolean && f.Type != schema.TypeReference {
			forms = append(forms, strings.ToLower(g.Plural(b)))
		}
	}
	if f.IsReference() {
		if short, ok := strings.CutSuffix(spaced, " id"); ok {
			forms = append(forms, short)
		}
		forms = append(forms, Spaced(schema.ParentRelationshipName(f.Name)))
	}
	return forms
}

// adjectivesFor derives the adjectives of a boolean field named Is<Stem>.
func adjectivesFor(f schema.Field) []booleanAdjective {
	stem, ok := strings.CutPrefix(Spaced(f.Name), "is ")
	if !ok || strings.Contains(stem, " ") {
		return nil
	}
	adjs := []booleanAdjective{
		{word: stem, field: f.Name, value: true},
		{word: "un" + stem, field: f.Name, value: false},
		{word: "in" + stem, field: f.Name, value: false},
		{word: "non-" + stem, field: f.Name, value: false},
		{word: "non" + stem, field: f.Name, value: false},
	}
	for word, negated := range antonyms {
		if negated == stem {
			adjs = append(adjs, booleanAdjective{word: word, field: f.Name, value: false})
		}
	}
	return adjs
}
