// Package store defines the ReplayStore and TaskStore contracts the
// peer pipeline depends on (§4.8) and ships in-memory implementations
// of both. Replay entries expire after a TTL; task entries do not.
package store

import (
	"context"

	"github.com/snap-protocol/snap/pkg/task"
)

// ReplayStore records which (from, id) pairs a peer has already
// processed, so repeated delivery of the same message can be rejected
// as a duplicate. Implementations MUST be safe under concurrent
// updates.
type ReplayStore interface {
	// HasSeen reports whether (from, id) was already recorded.
	HasSeen(ctx context.Context, from, id string) (bool, error)
	// MarkSeen records (from, id) with the given Unix timestamp.
	MarkSeen(ctx context.Context, from, id string, timestamp int64) error
	// CheckAndMark atomically checks and records (from, id) in one
	// step: it reports whether the pair was already seen and, if not,
	// marks it seen before returning. Callers that need duplicate
	// rejection under concurrent delivery of the same (from, id) MUST
	// use this instead of a separate HasSeen/MarkSeen pair, which
	// admits a race between the two calls.
	CheckAndMark(ctx context.Context, from, id string, timestamp int64) (alreadySeen bool, err error)
}

// TaskStore holds Task records keyed by task id.
type TaskStore interface {
	Get(ctx context.Context, taskID string) (task.Task, bool, error)
	Set(ctx context.Context, taskID string, t task.Task) error
	Delete(ctx context.Context, taskID string) error
}
