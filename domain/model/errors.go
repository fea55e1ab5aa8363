package model

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("unavailable")
)

// Error is a domain failure whose Message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) error        { return &Error{Kind: ErrNotFound, Message: msg} }
func InvalidArgument(msg string) error { return &Error{Kind: ErrInvalidArgument, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: ErrForbidden, Message: msg} }
func Unavailable(msg string) error     { return &Error{Kind: ErrUnavailable, Message: msg} }

// Common messages reused by stores and usecases.
const (
	MsgVideoNotFound     = "Video not found"
	MsgNoVideosAvailable = "No videos available"
)
