// Package store provides SQLite-backed history for generated queries.
//
// The store keeps:
//   - Generations: one row per answered question
//   - Replay runs: each time the history was replayed against a schema
//   - Replay drifts: generations whose query changed in a replay run
//
// # Ordering
//
// All ordering uses the seq column handed out by the engine clock, never
// created_at. Ties cannot happen because seq is UNIQUE; queries still add
// id COLLATE BINARY so results are identical across platforms.
//
// # Idempotency
//
// Write uses ON CONFLICT(id) DO NOTHING. Writing the same generation twice
// is a no-op and reports inserted=false.
//
// Diagnostics are stored as canonical JSON produced by ir.MarshalCanonical
// so identical generations produce byte-identical rows.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: replay_drifts must reference real rows
package store
