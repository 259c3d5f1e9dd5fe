// Package agent implements the unified SNAP peer: handler and
// middleware registries, the inbound request/stream pipelines, and
// outbound send with transport fallback (spec.md §4.6).
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/sirupsen/logrus"
	"github.com/snap-protocol/snap/pkg/crypto"
	"github.com/snap-protocol/snap/pkg/message"
	"github.com/snap-protocol/snap/pkg/snaperr"
	"github.com/snap-protocol/snap/pkg/store"
	"github.com/snap-protocol/snap/pkg/transport"
)

// Agent owns one private key, its derived address, and the
// registries that drive message processing. Registries are mutated
// only during setup (Register*/Use/AddTransport calls); runtime
// dispatch only reads them.
type Agent struct {
	keyPair *crypto.KeyPair

	requestHandlers map[string]HandlerFunc
	streamHandlers  map[string]StreamHandlerFunc
	middleware      []Middleware
	transports      []transport.Transport

	replayStore store.ReplayStore
	taskStore   store.TaskStore

	validateWindow time.Duration
}

// New creates an Agent from a key pair. The agent's address is not
// stored; Address derives it from the key pair on each call.
func New(keyPair *crypto.KeyPair) *Agent {
	return &Agent{
		keyPair:         keyPair,
		requestHandlers: make(map[string]HandlerFunc),
		streamHandlers:  make(map[string]StreamHandlerFunc),
	}
}

// NewWithGeneratedKey creates an Agent with a freshly generated key
// pair on net.
func NewWithGeneratedKey(net *chaincfg.Params) (*Agent, error) {
	kp, err := crypto.GenerateKeyPair(net)
	if err != nil {
		return nil, err
	}
	return New(kp), nil
}

// Address returns the agent's P2TR identity.
func (a *Agent) Address() (string, error) {
	return a.keyPair.Address()
}

// RegisterHandler binds method to h, overwriting any prior handler
// for the same method.
func (a *Agent) RegisterHandler(method string, h HandlerFunc) {
	a.requestHandlers[method] = h
}

// RegisterStreamHandler binds method to a streaming handler.
func (a *Agent) RegisterStreamHandler(method string, h StreamHandlerFunc) {
	a.streamHandlers[method] = h
}

// Use appends mw to the middleware chain, in insertion order.
func (a *Agent) Use(mw Middleware) {
	a.middleware = append(a.middleware, mw)
}

// AddTransport appends t to the ordered transport fallback list.
func (a *Agent) AddTransport(t transport.Transport) {
	a.transports = append(a.transports, t)
}

// SetReplayStore configures duplicate-message detection. A nil store
// (the default) disables replay protection.
func (a *Agent) SetReplayStore(s store.ReplayStore) {
	a.replayStore = s
}

// SetTaskStore configures the store handlers can reach through
// HandlerContext.
func (a *Agent) SetTaskStore(s store.TaskStore) {
	a.taskStore = s
}

// SetValidateWindow overrides the default ±60s timestamp window used
// to validate inbound messages.
func (a *Agent) SetValidateWindow(window time.Duration) {
	a.validateWindow = window
}

func (a *Agent) validateOptions() message.ValidateOptions {
	return message.ValidateOptions{Window: a.validateWindow}
}

// ProcessInbound runs the inbound request pipeline (§4.6): validate,
// address check, replay check, middleware chain, dispatch, and
// signed response construction. It satisfies transport.Handler, so a
// Transport's Listen can call it directly.
func (a *Agent) ProcessInbound(ctx context.Context, in message.Message) (message.Message, error) {
	if err := message.Validate(in, a.validateOptions()); err != nil {
		return message.Message{}, err
	}

	address, err := a.Address()
	if err != nil {
		return message.Message{}, snaperr.Wrap(snaperr.InternalError, "derive own address", err)
	}
	if in.To != "" && in.To != address {
		return message.Message{}, snaperr.New(snaperr.InvalidMessage, "message addressed to a different peer")
	}

	if a.replayStore != nil {
		seen, err := a.replayStore.CheckAndMark(ctx, in.From, in.ID, in.Timestamp)
		if err != nil {
			return message.Message{}, snaperr.Wrap(snaperr.InternalError, "replay store check", err)
		}
		if seen {
			return message.Message{}, snaperr.New(snaperr.DuplicateMessage, "duplicate message id from this sender")
		}
	}

	mctx := &MiddlewareContext{Message: in, Direction: DirectionInbound}
	err = runChain(ctx, a.middleware, mctx, func(ctx context.Context) error {
		handler, ok := a.requestHandlers[in.Method]
		if !ok {
			return snaperr.Newf(snaperr.MethodNotFound, "no handler registered for method %q", in.Method)
		}
		hctx := &HandlerContext{Inbound: in, TaskStore: a.taskStore}
		result, herr := handler(ctx, hctx, in.Payload)
		if herr != nil {
			return herr
		}

		resp := message.NewBuilder().
			ID(message.NewID()).
			From(address).
			To(in.From).
			Kind(message.TypeResponse).
			Method(in.Method).
			Payload(result).
			Timestamp(time.Now().Unix()).
			Build()

		signed, serr := a.sign(resp)
		if serr != nil {
			return serr
		}
		mctx.Message = signed
		return nil
	})
	if err != nil {
		return message.Message{}, err
	}
	return mctx.Message, nil
}

// ProcessInboundStream runs the inbound streaming pipeline: identical
// validation/addressing/replay/middleware steps, but dispatches to a
// registered stream handler instead. Each yielded item is signed (if
// not already) before being emitted on the returned channel; ordering
// is preserved. The replay check is keyed on (from, id) exactly as in
// ProcessInbound, so a resubscribe such as tasks/resubscribe that
// reuses an earlier request's id is rejected as DuplicateMessage;
// callers must mint a fresh id for every attempt.
func (a *Agent) ProcessInboundStream(ctx context.Context, in message.Message) (<-chan message.Message, error) {
	if err := message.Validate(in, a.validateOptions()); err != nil {
		return nil, err
	}

	address, err := a.Address()
	if err != nil {
		return nil, snaperr.Wrap(snaperr.InternalError, "derive own address", err)
	}
	if in.To != "" && in.To != address {
		return nil, snaperr.New(snaperr.InvalidMessage, "message addressed to a different peer")
	}

	if a.replayStore != nil {
		seen, err := a.replayStore.CheckAndMark(ctx, in.From, in.ID, in.Timestamp)
		if err != nil {
			return nil, snaperr.Wrap(snaperr.InternalError, "replay store check", err)
		}
		if seen {
			return nil, snaperr.New(snaperr.DuplicateMessage, "duplicate message id from this sender")
		}
	}

	var upstream <-chan message.Message
	mctx := &MiddlewareContext{Message: in, Direction: DirectionInbound}
	err = runChain(ctx, a.middleware, mctx, func(ctx context.Context) error {
		handler, ok := a.streamHandlers[in.Method]
		if !ok {
			return snaperr.Newf(snaperr.MethodNotFound, "no stream handler registered for method %q", in.Method)
		}
		hctx := &HandlerContext{Inbound: in, TaskStore: a.taskStore}
		ch, herr := handler(ctx, hctx, in.Payload)
		if herr != nil {
			return herr
		}
		upstream = ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(chan message.Message)
	go func() {
		defer close(out)
		for item := range upstream {
			if item.From == "" {
				item.From = address
			}
			if item.To == "" {
				item.To = in.From
			}
			if item.Sig == "" {
				signed, serr := a.sign(item)
				if serr != nil {
					logrus.WithError(serr).Warn("snap agent: failed to sign stream event")
					continue
				}
				item = signed
			}
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Send builds, signs, and dispatches a fresh outbound request,
// trying transports in configured order until one succeeds.
func (a *Agent) Send(ctx context.Context, to, method string, payload map[string]interface{}) (message.Message, error) {
	address, err := a.Address()
	if err != nil {
		return message.Message{}, snaperr.Wrap(snaperr.InternalError, "derive own address", err)
	}

	unsigned := message.NewBuilder().
		ID(message.NewID()).
		From(address).
		To(to).
		Kind(message.TypeRequest).
		Method(method).
		Payload(payload).
		Timestamp(time.Now().Unix()).
		Build()

	signed, err := a.sign(unsigned)
	if err != nil {
		return message.Message{}, err
	}

	mctx := &MiddlewareContext{Message: signed, Direction: DirectionOutbound}
	if err := runChain(ctx, a.middleware, mctx, func(ctx context.Context) error { return nil }); err != nil {
		return message.Message{}, err
	}

	return a.sendOverTransports(ctx, mctx.Message)
}

// SendStream is Send's streaming counterpart: it signs and runs
// middleware identically, then hands off to the first transport that
// offers streaming.
func (a *Agent) SendStream(ctx context.Context, to, method string, payload map[string]interface{}) (<-chan message.Message, error) {
	address, err := a.Address()
	if err != nil {
		return nil, snaperr.Wrap(snaperr.InternalError, "derive own address", err)
	}

	unsigned := message.NewBuilder().
		ID(message.NewID()).
		From(address).
		To(to).
		Kind(message.TypeRequest).
		Method(method).
		Payload(payload).
		Timestamp(time.Now().Unix()).
		Build()

	signed, err := a.sign(unsigned)
	if err != nil {
		return nil, err
	}

	mctx := &MiddlewareContext{Message: signed, Direction: DirectionOutbound}
	if err := runChain(ctx, a.middleware, mctx, func(ctx context.Context) error { return nil }); err != nil {
		return nil, err
	}

	for _, t := range a.transports {
		st, ok := t.(transport.StreamTransport)
		if !ok {
			continue
		}
		return st.SendStream(ctx, mctx.Message, transport.SendOptions{})
	}
	return nil, snaperr.New(snaperr.TransportUnavailable, "no configured transport supports streaming")
}

func (a *Agent) sendOverTransports(ctx context.Context, m message.Message) (message.Message, error) {
	if len(a.transports) == 0 {
		return message.Message{}, snaperr.New(snaperr.TransportUnavailable, "no transports configured")
	}

	var lastErr error
	for _, t := range a.transports {
		resp, err := t.Send(ctx, m, transport.SendOptions{})
		if err == nil {
			return resp, nil
		}
		logrus.WithError(err).WithField("transport", t.Name()).Warn("snap agent: send attempt failed, trying next transport")
		lastErr = err
	}
	return message.Message{}, fmt.Errorf("snap agent: all transports failed: %w", lastErr)
}

func (a *Agent) sign(m message.Message) (message.Message, error) {
	sig, err := message.Sign(m, a.keyPair.TweakedPrivateKey(), nil)
	if err != nil {
		return message.Message{}, snaperr.Wrap(snaperr.InternalError, "sign message", err)
	}
	m.Sig = sig
	return m, nil
}
