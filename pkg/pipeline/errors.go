package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies recording errors.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindAlreadyRecording
	KindTeardownPending
	KindNotRecording
	KindCodecOpen
	KindFrameDecode
	KindWrite
	KindTeardown
	KindClosed
	KindOverloaded
)

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrConfiguration    = &Error{Kind: KindConfiguration}
	ErrAlreadyRecording = &Error{Kind: KindAlreadyRecording}
	ErrTeardownPending  = &Error{Kind: KindTeardownPending}
	ErrNotRecording     = &Error{Kind: KindNotRecording}
	ErrCodecOpen        = &Error{Kind: KindCodecOpen}
	ErrFrameDecode      = &Error{Kind: KindFrameDecode}
	ErrWrite            = &Error{Kind: KindWrite}
	ErrTeardown         = &Error{Kind: KindTeardown}
	ErrClosed           = &Error{Kind: KindClosed}
	ErrOverloaded       = &Error{Kind: KindOverloaded}
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindAlreadyRecording:
		return "already recording"
	case KindTeardownPending:
		return "teardown pending"
	case KindNotRecording:
		return "not recording"
	case KindCodecOpen:
		return "codec open failed"
	case KindFrameDecode:
		return "frame decode failed"
	case KindWrite:
		return "frame write failed"
	case KindTeardown:
		return "teardown failed"
	case KindClosed:
		return "recorder closed"
	case KindOverloaded:
		return "request buffer full"
	default:
		return "unknown error"
	}
}

// SegmentFatal reports whether errors of this kind reject the initiating
// command and leave the recorder idle.
func (k Kind) SegmentFatal() bool {
	switch k {
	case KindFrameDecode, KindWrite, KindOverloaded:
		return false
	default:
		return true
	}
}

// Error is a classified recording error.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// Errorf creates an *Error with a formatted detail message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error around a cause.
func Wrap(kind Kind, err error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	msg := "recstream: " + e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
