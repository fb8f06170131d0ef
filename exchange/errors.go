package exchange

import (
	"errors"
	"fmt"
)

var (
	//
	// ErrMissingCredentials is returned before any request is sent when a private endpoint is called
	// on a client that was not given the credentials that endpoint requires.
	//
	ErrMissingCredentials = errors.New("the client has not been configured with the required credentials")

	//
	// ErrNotSupported is returned by operations that the client exposes but does not implement.
	//
	ErrNotSupported = errors.New("operation is not supported")

	//
	// ErrMissingSubmitID is returned before any request is sent when an order or exchange
	// instruction is submitted without the caller-chosen idempotency token.
	//
	ErrMissingSubmitID = errors.New("a submit id is required")

	//
	// ErrEmptyOrderbook is returned when a best quote is requested for a pair whose order book has no
	// bids or no asks.
	//
	ErrEmptyOrderbook = errors.New("order book has no bids or no asks")
)

//
// Kind is an enum that represents the structural kinds of failure that can abort a call against an
// exchange's API.
//
type Kind int

const (
	KindTransport Kind = iota // The request could not be built, sent, read, or was answered with an unusable status.
	KindDecode                // The response body did not match the expected JSON shape.
)

func (o Kind) String() string {
	return [...]string{"transport", "decode"}[o]
}

//
// Error tags an underlying failure with its Kind and the operation (method and request URI) during
// which it occurred. Every failure surfaced by the clients is either one of these or one of the
// package's sentinel errors.
//
type Error struct {
	kind Kind
	op   string
	err  error
}

func NewTransportError(op string, err error) *Error {
	return &Error{
		kind: KindTransport,
		op:   op,
		err:  err,
	}
}

func NewDecodeError(op string, err error) *Error {
	return &Error{
		kind: KindDecode,
		op:   op,
		err:  err,
	}
}

func (o *Error) Kind() Kind {
	return o.kind
}

func (o *Error) Op() string {
	return o.op
}

func (o *Error) Unwrap() error {
	return o.err
}

func (o *Error) Error() string {
	return fmt.Sprintf("%s failed with a %s error: %s", o.op, o.kind, o.err)
}

//
// IsTransport reports whether the provided error (or anything it wraps) is a transport failure.
//
func IsTransport(err error) bool {
	return isKind(err, KindTransport)
}

//
// IsDecode reports whether the provided error (or anything it wraps) is a decode failure.
//
func IsDecode(err error) bool {
	return isKind(err, KindDecode)
}

func isKind(err error, kind Kind) bool {
	var e *Error

	if !errors.As(err, &e) {
		return false
	}

	return e.kind == kind
}
