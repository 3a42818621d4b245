// Package intent turns a free-text question into a structured Intent.
//
// Extraction is rule-driven and deterministic. The question is normalized
// and tokenized, object and field surface forms are matched against a
// Vocabulary built from the schema graph, and an ordered list of tagged
// rules decides which objects the question is about and how they relate.
// Relationship rules run before plain mention rules so that "accounts with
// their contacts" is never read as two unrelated objects.
//
// Clause-level phrases (date ranges, modifiers, explicit field lists) are
// detected here as raw phrases; translating them into query clauses is the
// job of package clause.
package intent
