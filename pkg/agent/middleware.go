package agent

import (
	"context"

	"github.com/snap-protocol/snap/pkg/message"
)

// Direction tells a middleware which side of the pipeline it is
// running on.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MiddlewareContext is the shared, mutable context a middleware chain
// passes along. A middleware may read or replace Message before
// calling next, and again after next returns, to implement pre/post
// logic.
type MiddlewareContext struct {
	Message   message.Message
	Direction Direction
}

// Next invokes the remainder of the chain.
type Next func(ctx context.Context) error

// Middleware wraps one step of the pipeline. A middleware that does
// not call next halts the chain — for an inbound request this means
// the handler never runs.
type Middleware func(ctx context.Context, mctx *MiddlewareContext, next Next) error

// runChain executes mws in registered order around terminal, so with
// middlewares A and B the trace is A-pre, B-pre, terminal, B-post,
// A-post — each middleware's code after its call to next runs as the
// stack unwinds.
func runChain(ctx context.Context, mws []Middleware, mctx *MiddlewareContext, terminal func(ctx context.Context) error) error {
	var run func(i int) error
	run = func(i int) error {
		if i >= len(mws) {
			return terminal(ctx)
		}
		return mws[i](ctx, mctx, func(ctx context.Context) error { return run(i + 1) })
	}
	return run(0)
}
