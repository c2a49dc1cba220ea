package protocol

import (
	"fmt"
	"time"
)

// ErrorKind is a closed taxonomy of structured error categories.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNetwork        ErrorKind = "network"
	KindAuthentication ErrorKind = "authentication"
	KindContent        ErrorKind = "content"
	KindConverter      ErrorKind = "converter"
	KindConfiguration  ErrorKind = "configuration"
)

// Sub-kinds, used for JSON-RPC code selection and retry classification.
// These are not part of the closed Kind taxonomy itself but refine it,
// matching the way spec.md's closed mapping table distinguishes e.g.
// "invalid-session-id" and "timeout" from their parent kinds.
type SubKind string

const (
	SubInvalidSessionID SubKind = "invalid_session_id"
	SubTemplate          SubKind = "template"
	SubPattern           SubKind = "pattern"
	SubProtocol          SubKind = "protocol"
	SubInvalidRequest    SubKind = "invalid_request"
	SubNotFound          SubKind = "not_found"
	SubTimeout           SubKind = "timeout"
	SubQueueFull         SubKind = "queue_full"
	SubRateLimit         SubKind = "rate_limit"
	SubCancelled         SubKind = "cancelled"
	SubStreamClosed      SubKind = "stream_closed"
	SubInternal          SubKind = "internal"
	SubWorker            SubKind = "worker"
	SubModel             SubKind = "model"
	SubGeneration        SubKind = "generation"
	SubNone              SubKind = ""
)

// ErrorContext is the rich context record carried by every structured
// error.
type ErrorContext struct {
	SourceID  string
	Operation string
	Component string
	Timestamp time.Time
	Extra     string
}

// Error is a structured error: a kind, an optional refining sub-kind,
// a context record, and a human message.
type Error struct {
	Kind      ErrorKind
	Sub       SubKind
	Context   ErrorContext
	Message   string
	HTTPStatus int // 0 if not applicable
	wrapped   error
}

func (e *Error) Error() string {
	if e.Context.Component != "" {
		return fmt.Sprintf("[%s/%s] %s", e.Context.Component, e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// New builds a structured Error.
func New(kind ErrorKind, sub SubKind, component, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Sub:     sub,
		Message: message,
		Context: ErrorContext{
			Component: component,
			Operation: op,
			Timestamp: time.Now(),
		},
	}
}

// JSONRPCError is the wire shape for a failed JSON-RPC call.
type JSONRPCError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *JSONRPCErrorData `json:"data,omitempty"`
}

// JSONRPCErrorData is the optional detail payload on a JSON-RPC error.
type JSONRPCErrorData struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion"`
}

const (
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeServerError    = -32000
)

// ToJSONRPC maps a structured Error to its JSON-RPC wire shape via the
// closed table in spec §4.4.
func (e *Error) ToJSONRPC() JSONRPCError {
	code := jsonRPCCode(e.Kind, e.Sub)
	return JSONRPCError{
		Code:    code,
		Message: e.Message,
		Data: &JSONRPCErrorData{
			Error:      string(e.Kind),
			Details:    e.Message,
			Suggestion: suggestionFor(e.Kind, e.Sub),
		},
	}
}

func jsonRPCCode(kind ErrorKind, sub SubKind) int {
	switch sub {
	case SubInvalidSessionID, SubTemplate, SubPattern, SubNotFound:
		return CodeInvalidParams
	case SubProtocol, SubInvalidRequest:
		return CodeInvalidRequest
	case SubTimeout, SubQueueFull, SubRateLimit, SubCancelled, SubStreamClosed:
		return CodeServerError
	case SubInternal, SubWorker, SubModel, SubGeneration:
		return CodeInternalError
	}

	switch kind {
	case KindValidation:
		return CodeInvalidParams
	case KindNetwork, KindAuthentication:
		return CodeServerError
	default:
		return CodeInternalError
	}
}

func suggestionFor(kind ErrorKind, sub SubKind) string {
	switch sub {
	case SubTimeout:
		return "retry after a short delay"
	case SubRateLimit, SubQueueFull:
		return "wait for the current load to clear and retry"
	case SubInvalidSessionID:
		return "verify the session id format"
	case SubNotFound:
		return "verify the identifier exists"
	}
	switch kind {
	case KindValidation:
		return "check the request parameters"
	case KindConfiguration:
		return "check the runtime configuration"
	default:
		return "contact support if this persists"
	}
}

// IsRetryable is a pure function over kind/sub and optional HTTP
// status: 5xx except 501 retryable; 429 recoverable (also retryable);
// DNS never retryable; token-expired retryable.
func IsRetryable(kind ErrorKind, sub SubKind, httpStatus int) bool {
	if sub == SubTimeout || sub == SubQueueFull || sub == SubRateLimit {
		return true
	}
	if kind == KindNetwork && sub == "dns" {
		return false
	}
	if kind == KindAuthentication && sub == "token_expired" {
		return true
	}
	if httpStatus == 429 {
		return true
	}
	if httpStatus >= 500 && httpStatus != 501 {
		return true
	}
	return false
}

// IsRecoverable is a pure function: 429 is recoverable (the caller can
// back off and succeed); most structural failures are not.
func IsRecoverable(kind ErrorKind, sub SubKind, httpStatus int) bool {
	if httpStatus == 429 {
		return true
	}
	if sub == SubTimeout || sub == SubRateLimit {
		return true
	}
	return false
}
