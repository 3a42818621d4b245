// Package clause turns the cues of an intent into clauses on a query tree.
//
// Each Builder owns one clause family and declares a Capability flag. The
// Pipeline computes the flag set for a request once, then applies the
// builders whose flag is set in a fixed order: fields, filters, dates,
// aggregation, sorting, modifiers. Builders never remove what an earlier
// builder added, except aggregation, which collapses the select list.
//
// Builders record recoverable problems (unknown fields, malformed counts)
// as diagnostics on the Context and never fail.
package clause
