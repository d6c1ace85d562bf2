// Package completion tracks per-viewer "done" state for shared tasks. A
// shared task has one canonical body but N independent completion flags, one
// per viewer; each viewer owns only their own membership, so cross-viewer
// toggles never conflict. Private tasks store completed on the task itself
// and never touch this overlay.
package completion

import "context"

// Store defines the per-task completion set.
type Store interface {
	// MarkDone adds viewerID to the task's completion set. Idempotent.
	MarkDone(ctx context.Context, taskID, viewerID string) error
	// MarkUndone removes viewerID. Idempotent; absent membership is not an error.
	MarkUndone(ctx context.Context, taskID, viewerID string) error
	// IsDone reports whether viewerID is in the task's completion set.
	IsDone(ctx context.Context, taskID, viewerID string) (bool, error)
	// CascadeDelete removes the task's entire completion set. Called when
	// the underlying task is deleted.
	CascadeDelete(ctx context.Context, taskID string) error
}
