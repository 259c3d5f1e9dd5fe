// Package snaperr defines the typed error taxonomy the protocol uses
// to report faults to callers and to serialize the on-wire error
// envelope ({ code, message, data? }).
package snaperr

import "fmt"

// Code is one of the integer error codes defined below.
type Code int

// 1xxx: Task/Message errors.
const (
	TaskNotFound            Code = 1001
	TaskNotCancelable       Code = 1002
	InvalidMessage          Code = 1003
	InvalidPayload          Code = 1004
	ContentTypeNotSupported Code = 1005
	PushNotificationError   Code = 1006
	MethodNotFound          Code = 1007
)

// 2xxx: Authentication errors.
const (
	SignatureInvalid  Code = 2001
	SignatureMissing  Code = 2002
	IdentityMismatch  Code = 2003
	TimestampExpired  Code = 2004
	IdentityInvalid   Code = 2005
	DuplicateMessage  Code = 2006
)

// 3xxx: Discovery errors.
const (
	AgentNotFound       Code = 3001
	AgentCardInvalid    Code = 3002
	AgentCardExpired    Code = 3003
	RelayConnectionError Code = 3004
	SkillNotFound       Code = 3005
)

// 4xxx: Transport errors.
const (
	TransportUnavailable Code = 4001
	ConnectionTimeout    Code = 4002
	ConnectionRefused    Code = 4003
	TLSError             Code = 4004
	WebSocketError       Code = 4005
	NostrDeliveryError   Code = 4006
)

// 5xxx: System errors.
const (
	InternalError      Code = 5001
	RateLimitExceeded  Code = 5002
	ServiceUnavailable Code = 5003
	VersionNotSupported Code = 5004
	Maintenance        Code = 5005
)

var names = map[Code]string{
	TaskNotFound:            "TaskNotFound",
	TaskNotCancelable:       "TaskNotCancelable",
	InvalidMessage:          "InvalidMessage",
	InvalidPayload:          "InvalidPayload",
	ContentTypeNotSupported: "ContentTypeNotSupported",
	PushNotificationError:   "PushNotificationError",
	MethodNotFound:          "MethodNotFound",

	SignatureInvalid: "SignatureInvalid",
	SignatureMissing: "SignatureMissing",
	IdentityMismatch: "IdentityMismatch",
	TimestampExpired: "TimestampExpired",
	IdentityInvalid:  "IdentityInvalid",
	DuplicateMessage: "DuplicateMessage",

	AgentNotFound:        "AgentNotFound",
	AgentCardInvalid:     "AgentCardInvalid",
	AgentCardExpired:     "AgentCardExpired",
	RelayConnectionError: "RelayConnectionError",
	SkillNotFound:        "SkillNotFound",

	TransportUnavailable: "TransportUnavailable",
	ConnectionTimeout:    "ConnectionTimeout",
	ConnectionRefused:    "ConnectionRefused",
	TLSError:             "TLSError",
	WebSocketError:       "WebSocketError",
	NostrDeliveryError:   "NostrDeliveryError",

	InternalError:       "InternalError",
	RateLimitExceeded:   "RateLimitExceeded",
	ServiceUnavailable:  "ServiceUnavailable",
	VersionNotSupported: "VersionNotSupported",
	Maintenance:         "Maintenance",
}

// String returns the symbolic name of the code, or "Unknown" if c is
// not one of the defined codes.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "Unknown"
}

// Error is a typed protocol error carrying a code, a human-readable
// message, and optional structured data (e.g. RateLimitExceeded's
// data.retryAfter).
type Error struct {
	Code    Code
	Message string
	Data    map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("snap: %s (%d): %s", e.Code, int(e.Code), e.Message)
	}
	return fmt.Sprintf("snap: %s (%d)", e.Code, int(e.Code))
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that reports message but preserves cause for
// errors.Is/As and logging.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithData attaches structured error data (e.g. retryAfter) and
// returns the same Error for chaining.
func (e *Error) WithData(data map[string]interface{}) *Error {
	e.Data = data
	return e
}

// Envelope is the on-wire shape of the payload's "error" field (§6).
type Envelope struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// ToEnvelope converts the error into its on-wire envelope shape.
func (e *Error) ToEnvelope() Envelope {
	return Envelope{Code: e.Code, Message: e.Message, Data: e.Data}
}

// IsRetryable reports whether a caller should consider bounded
// exponential backoff for this code, per §7's propagation policy
// (4xxx and transient 5xxx — InternalError and ServiceUnavailable).
func (c Code) IsRetryable() bool {
	switch {
	case c >= 4001 && c <= 4006:
		return true
	case c == InternalError || c == ServiceUnavailable:
		return true
	default:
		return false
	}
}
