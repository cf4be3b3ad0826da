package bencode

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindTruncated ErrorKind = iota + 1
	KindMalformedInteger
	KindMalformedLength
	KindMalformedKey
	KindUnexpectedByte
	KindTrailingData
	KindIO
	KindDepthExceeded
)

var (
	ErrTruncated        = errors.New("bencode: truncated input")
	ErrMalformedInteger = errors.New("bencode: malformed integer")
	ErrMalformedLength  = errors.New("bencode: malformed byte string length")
	ErrMalformedKey     = errors.New("bencode: malformed dictionary key")
	ErrUnexpectedByte   = errors.New("bencode: unexpected byte")
	ErrTrailingData     = errors.New("bencode: trailing data")
	ErrIO               = errors.New("bencode: i/o failure")
	ErrDepthExceeded    = errors.New("bencode: nesting too deep")
)

var sentinels = map[ErrorKind]error{
	KindTruncated:        ErrTruncated,
	KindMalformedInteger: ErrMalformedInteger,
	KindMalformedLength:  ErrMalformedLength,
	KindMalformedKey:     ErrMalformedKey,
	KindUnexpectedByte:   ErrUnexpectedByte,
	KindTrailingData:     ErrTrailingData,
	KindIO:               ErrIO,
	KindDepthExceeded:    ErrDepthExceeded,
}

func (k ErrorKind) String() string {
	if s, ok := sentinels[k]; ok {
		return s.Error()[len("bencode: "):]
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// DecodeError is returned for every decoding failure. Offset is the position in the input where the
// problem was found; it is -1 for I/O failures.
type DecodeError struct {
	Kind   ErrorKind
	Offset int
	msg    string
	err    error
}

func newDecodeError(kind ErrorKind, offset int, msg string, vars ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, msg: fmt.Sprintf(msg, vars...)}
}

func newIOError(path string, err error) *DecodeError {
	return &DecodeError{Kind: KindIO, Offset: -1, msg: fmt.Sprintf("reading %s", path), err: err}
}

func (e *DecodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", sentinels[e.Kind], e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", sentinels[e.Kind], e.msg)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// Is lets errors.Is match a DecodeError against the sentinel for its kind.
func (e *DecodeError) Is(target error) bool {
	return sentinels[e.Kind] == target
}
