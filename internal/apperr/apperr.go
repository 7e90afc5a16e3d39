// Package apperr provides typed domain errors. Services return these and
// the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error for propagation decisions and HTTP mapping.
type Kind int

const (
	KindUnknown Kind = iota
	// KindProviderUnavailable means an external flight-data provider timed
	// out, network-failed, or returned a non-success status. The whole
	// search or lookup fails; no cached fallback is substituted.
	KindProviderUnavailable
	// KindParse means one provider payload could not be normalized into a
	// canonical itinerary. The item is dropped, the batch continues.
	KindParse
	// KindScoring means enrichment or scoring failed for one itinerary.
	// The itinerary is dropped, the batch continues.
	KindScoring
	// KindCache means a cache read or write failed. Logged only; the
	// search proceeds with freshly computed results.
	KindCache
	KindValidation
	KindNotFound
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status. A provider outage
// is a 502 so callers can tell it apart from an empty result list.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindProviderUnavailable:
		return http.StatusBadGateway
	case KindValidation, KindParse:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// KindOf extracts the kind from any error in the chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func ProviderUnavailable(message string, err error) *Error {
	return Wrap(KindProviderUnavailable, message, err)
}

func Parse(message string, err error) *Error {
	return Wrap(KindParse, message, err)
}

func Scoring(message string, err error) *Error {
	return Wrap(KindScoring, message, err)
}

func Cache(message string, err error) *Error {
	return Wrap(KindCache, message, err)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}
