// Package transport defines the minimal contracts a transport must
// satisfy to carry SnapMessages (§4.7). Transports serialize messages
// as JSON verbatim — no field reordering that would invalidate the
// canonical payload — and must never mutate message fields.
package transport

import (
	"context"

	"github.com/snap-protocol/snap/pkg/message"
)

// Handler processes one inbound message and returns the response to
// send back.
type Handler func(ctx context.Context, m message.Message) (message.Message, error)

// StreamHandler processes one inbound message and returns a lazy
// sequence of outbound messages, terminated by closing the channel.
// Sends on the returned channel stop once ctx is done.
type StreamHandler func(ctx context.Context, m message.Message) (<-chan message.Message, error)

// SendOptions configures a single send attempt.
type SendOptions struct {
	Timeout int64 // milliseconds; zero means no explicit timeout
}

// Transport is the minimal contract the peer pipeline consumes.
// listen and close are optional: an implementation that only
// supports outbound sends may leave them no-ops.
type Transport interface {
	Name() string
	Send(ctx context.Context, m message.Message, opts SendOptions) (message.Message, error)
	Listen(ctx context.Context, h Handler) error
	Close() error
}

// StreamTransport extends Transport with the streaming operations.
type StreamTransport interface {
	Transport
	SendStream(ctx context.Context, m message.Message, opts SendOptions) (<-chan message.Message, error)
	ListenStream(ctx context.Context, h StreamHandler) error
}
