package itemdata

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEncoding is returned when the input text is not valid base64.
	ErrInvalidEncoding = errors.New("invalid base64 encoding")
	// ErrBufferExhausted is returned when a read needs more bytes than remain.
	ErrBufferExhausted = errors.New("buffer exhausted")
	// ErrEncoding is returned when string bytes are not valid UTF-8.
	ErrEncoding = errors.New("invalid utf-8 string")
	// ErrMalformedHeader is returned when the header declares a negative item count.
	ErrMalformedHeader = errors.New("malformed inventory header")
)

// Error kinds reported by Kind.
const (
	KindInvalidEncoding = "invalid_encoding"
	KindBufferExhausted = "buffer_exhausted"
	KindEncoding        = "encoding"
	KindMalformedHeader = "malformed_header"
	KindUnknown         = "unknown"
)

// Kind maps a decode error to a stable label. A nil error has no kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEncoding):
		return KindInvalidEncoding
	case errors.Is(err, ErrBufferExhausted):
		return KindBufferExhausted
	case errors.Is(err, ErrEncoding):
		return KindEncoding
	case errors.Is(err, ErrMalformedHeader):
		return KindMalformedHeader
	default:
		return KindUnknown
	}
}

// ItemError reports a failure while decoding one item of an inventory.
type ItemError struct {
	Index  int // zero-based position of the item in the inventory
	Offset int // byte offset where the item started
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
