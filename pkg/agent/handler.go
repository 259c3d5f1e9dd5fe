package agent

import (
	"context"

	"github.com/snap-protocol/snap/pkg/message"
	"github.com/snap-protocol/snap/pkg/store"
)

// HandlerContext is passed to every request/stream handler: the full
// inbound message and the peer's optional task store.
type HandlerContext struct {
	Inbound   message.Message
	TaskStore store.TaskStore
}

// HandlerFunc handles one request and returns the response payload.
type HandlerFunc func(ctx context.Context, hctx *HandlerContext, payload map[string]interface{}) (map[string]interface{}, error)

// StreamHandlerFunc handles one request and returns a lazy sequence
// of outbound messages. Prior items should have Type event; the
// final item should have Type response. Items need not be signed —
// the agent signs any item that isn't already.
type StreamHandlerFunc func(ctx context.Context, hctx *HandlerContext, payload map[string]interface{}) (<-chan message.Message, error)
