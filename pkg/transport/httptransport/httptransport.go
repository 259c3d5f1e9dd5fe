// Package httptransport is SNAP's reference transport: plain HTTP for
// request/response sends and Server-Sent Events for streaming,
// following spec.md §4.7's transport contract and §6's status-code
// rules.
package httptransport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/snap-protocol/snap/pkg/message"
	"github.com/snap-protocol/snap/pkg/snaperr"
	"github.com/snap-protocol/snap/pkg/transport"
)

const sendPath = "/snap/send"
const streamPath = "/snap/stream"

// HTTPTransport is SNAP's reference transport. Configure RemoteURL to
// use it for outbound Send/SendStream against a peer; configure
// ListenAddr and call Listen/ListenStream to serve inbound traffic.
// A single value may play both roles at once.
type HTTPTransport struct {
	// RemoteURL is the base URL of the peer this transport sends to
	// (e.g. "http://localhost:8090").
	RemoteURL string
	// ListenAddr is the address Listen/ListenStream bind to
	// (e.g. ":8090").
	ListenAddr string
	// Client is the HTTP client used for outbound sends; defaults to
	// http.DefaultClient when nil.
	Client *http.Client

	server *http.Server
}

// Name identifies this transport in fallback ordering and logs.
func (t *HTTPTransport) Name() string { return "http" }

func (t *HTTPTransport) httpClient() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return http.DefaultClient
}

// Send POSTs m to RemoteURL and decodes the response message.
// Transport-level status codes follow §6: 200 carries a protocol
// error in the payload, 400/429/500 are surfaced as typed transport
// faults.
func (t *HTTPTransport) Send(ctx context.Context, m message.Message, opts transport.SendOptions) (message.Message, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return message.Message{}, snaperr.Wrap(snaperr.InternalError, "encode outbound message", err)
	}

	reqCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Millisecond)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, t.RemoteURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return message.Message{}, snaperr.Wrap(snaperr.TransportUnavailable, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient().Do(req)
	if err != nil {
		return message.Message{}, snaperr.Wrap(snaperr.ConnectionRefused, "send request", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out message.Message
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return message.Message{}, snaperr.Wrap(snaperr.InternalError, "decode response", err)
		}
		return out, nil
	case http.StatusBadRequest:
		return message.Message{}, snaperr.New(snaperr.InvalidMessage, "peer rejected malformed request")
	case http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return message.Message{}, snaperr.New(snaperr.RateLimitExceeded, "peer rate limit exceeded").
			WithData(map[string]interface{}{"retryAfter": retryAfter})
	default:
		return message.Message{}, snaperr.Newf(snaperr.TransportUnavailable, "peer returned status %d", resp.StatusCode)
	}
}

// SendStream POSTs m to RemoteURL/snap/stream and decodes the SSE response
// as a channel of messages, preserving emission order.
func (t *HTTPTransport) SendStream(ctx context.Context, m message.Message, opts transport.SendOptions) (<-chan message.Message, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, snaperr.Wrap(snaperr.InternalError, "encode outbound message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RemoteURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, snaperr.Wrap(snaperr.TransportUnavailable, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := t.httpClient().Do(req)
	if err != nil {
		return nil, snaperr.Wrap(snaperr.ConnectionRefused, "send stream request", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, snaperr.Newf(snaperr.TransportUnavailable, "peer returned status %d", resp.StatusCode)
	}

	out := make(chan message.Message)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if len(line) < 6 || line[:6] != "data: " {
				continue
			}
			var m message.Message
			if err := json.Unmarshal([]byte(line[6:]), &m); err != nil {
				logrus.WithError(err).Warn("snap http client: malformed SSE event")
				continue
			}
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Listen starts an HTTP server that dispatches each inbound POST to
// h and writes back its response.
func (t *HTTPTransport) Listen(ctx context.Context, h transport.Handler) error {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc(sendPath, t.sendHandler(h)).Methods(http.MethodPost)

	t.server = &http.Server{Addr: t.ListenAddr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = t.server.Close()
	}()

	if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return snaperr.Wrap(snaperr.TransportUnavailable, "http listen", err)
	}
	return nil
}

// ListenStream starts an HTTP server that dispatches each inbound
// POST to h and streams its response sequence back as SSE, one event
// per yielded message, preserving handler order.
func (t *HTTPTransport) ListenStream(ctx context.Context, h transport.StreamHandler) error {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc(streamPath, t.streamHandler(h)).Methods(http.MethodPost)

	t.server = &http.Server{Addr: t.ListenAddr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = t.server.Close()
	}()

	if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return snaperr.Wrap(snaperr.TransportUnavailable, "http listen", err)
	}
	return nil
}

// Close shuts down the listening server, if any.
func (t *HTTPTransport) Close() error {
	if t.server == nil {
		return nil
	}
	return t.server.Close()
}

func (t *HTTPTransport) sendHandler(h transport.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in message.Message
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "malformed JSON", http.StatusBadRequest)
			return
		}

		out, err := h(r.Context(), in)
		if err != nil {
			// When the listener handler itself faults (as opposed to
			// returning a protocol-level error payload), never crash
			// the listener: log it and answer with a minimal error
			// envelope instead.
			logrus.WithError(err).Warn("snap http transport: handler error")
			writeErrorEnvelope(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}

func (t *HTTPTransport) streamHandler(h transport.StreamHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in message.Message
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "malformed JSON", http.StatusBadRequest)
			return
		}

		events, err := h(r.Context(), in)
		if err != nil {
			logrus.WithError(err).Warn("snap http transport: stream handler error")
			writeErrorEnvelope(w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		for m := range events {
			body, err := json.Marshal(m)
			if err != nil {
				logrus.WithError(err).Warn("snap http transport: encode stream event")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", body)
			flusher.Flush()
		}
	}
}

func writeErrorEnvelope(w http.ResponseWriter, err error) {
	snapErr, ok := err.(*snaperr.Error)
	if !ok {
		snapErr = snaperr.Wrap(snaperr.InternalError, "unhandled error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": snapErr.ToEnvelope(),
	})
}
