// Package ratings keeps the locally rendered rating state consistent with
// the recommendation service under latency and concurrent edits.
//
// The Coordinator owns the authoritative snapshot of ratings. A mutation is
// applied to the snapshot immediately, so the UI reflects it with zero
// perceived latency, and the matching request is submitted in the
// background. Each entity carries a monotonically increasing sequence
// number; only the response matching the highest sequence issued so far may
// commit or roll back, so a slow early request can never clobber a fast
// later one. On failure the optimistic value rolls back to the last
// server-confirmed value and the error surfaces through the Notifier.
//
// UI surfaces never mutate ratings directly: they call Rate and read values
// back through Value or All, which return copies.
package ratings
