// Package session implements the in-memory session manager: authenticated
// sessions with TTL expiry, chat threads, and the per-session note stores the
// tool layer operates on. Sessions never outlive the process; the store is
// the only shared mutable state in the service and is partitioned per
// session id.
package session
