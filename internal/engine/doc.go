// Package engine implements the soqlgen dispatcher.
//
// Generate runs one question through the whole pipeline:
//
//  1. intent.Extractor reads the question against the schema vocabulary
//  2. resolve.Resolver lays out the tree skeleton (root, subqueries, lookups)
//  3. clause.Pipeline plans and applies the clause builders in fixed order
//  4. queryir.Validate checks the finished tree
//  5. querysoql renders it to one line of SOQL
//
// Generate never fails on phrasing it does not understand. Every dropped
// or defaulted element becomes an ir.Diagnostic on the Result, and the
// worst case is the default fields of the default object.
//
// Concurrency: an Engine is safe for concurrent use. The schema lives in a
// schema.Snapshot; each request loads it once, so a Reload in the middle of
// a request is not observed by that request. Per-request state (intent,
// tree, diagnostics) is never shared.
//
// Request IDs come from an IDGenerator (UUIDv7 in production, fixed
// sequences in tests) and results are stamped with a logical sequence
// number from a Clock. Neither takes part in query generation, so the same
// question and schema always render the same query.
package engine
