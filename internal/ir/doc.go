// Package ir holds the value types shared by every stage of query synthesis.
//
// ir imports nothing internal. Literal values, diagnostics and the canonical
// JSON encoding used for fingerprints live here so that the extractor,
// builders, composer and store agree on one representation.
//
// Key constraints:
//   - NO float types: numeric literals are int64 or exact decimals
//   - All JSON tags use snake_case
//   - Canonical JSON is the only encoding used for hashing
package ir
