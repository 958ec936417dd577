// Package state persists build history in SQLite: one row per build, the
// fingerprint of every post seen by the last successful build, and an
// append-only log of build events.
package state
