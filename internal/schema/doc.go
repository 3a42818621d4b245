// Package schema provides the immutable object graph that questions are
// resolved against.
//
// A Graph is built once through a Builder and never mutated afterwards, so
// any number of requests may read it concurrently. Hot reload swaps whole
// graphs through a Snapshot.
//
// Relationship edges point from parent to child. Each edge carries the
// plural child relationship name used in nested subqueries and the foreign
// key on the child used for dot-notation lookups back to the parent.
package schema
