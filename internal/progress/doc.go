// Package progress persists resume offsets per exercise in SQLite.
//
// Records are keyed by the exercise identity hash, so an edited exercise
// starts fresh instead of resuming at an offset that no longer fits.
package progress
