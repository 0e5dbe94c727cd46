package lead

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// fetch error kinds
	ErrTransport    = errors.New("transport failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrMalformed    = errors.New("malformed response")

	ErrFetchInFlight = errors.New("a fetch is already in flight")
	ErrViewClosed    = errors.New("view closed")
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidPage   = errors.New("page must be greater than 0")
	ErrNoPatcher     = errors.New("sales status updates are not supported")
)

// user-visible messages
const (
	MsgLoadFailed     = "failed to load leads"
	MsgUpdateFailed   = "failed to update lead"
	MsgSessionExpired = "session expired, please sign in again"
	MsgBadResponse    = "unexpected response from server"
)

// FetchError is returned by PageSource and StatusPatcher implementations.
// errors.Is matches it against its Kind.
type FetchError struct {
	Kind error
	Op   string
	Page int // 0 when not a page fetch
	Err  error
}

func (e *FetchError) Error() string {
	var what string
	if e.Page > 0 {
		what = fmt.Sprintf("%s page %d", e.Op, e.Page)
	} else {
		what = e.Op
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", what, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", what, e.Kind, e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(kind error, op string, page int, err error) *FetchError {
	return &FetchError{Kind: kind, Op: op, Page: page, Err: err}
}

// Kind names the kind of a fetch error: "transport", "unauthorized", "malformed", or "" for anything else.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return ""
	}
}

// UserMessage turns a fetch error into the message shown to the user.
func UserMessage(err error) string {
	switch Kind(err) {
	case "unauthorized":
		return MsgSessionExpired
	case "malformed":
		return MsgBadResponse
	case "":
		if err == nil {
			return ""
		}
	}
	return MsgLoadFailed
}
