package itemdata

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Cursor reads fixed-width and length-prefixed values from a byte buffer.
// Every successful read advances the offset by exactly the bytes consumed;
// a failed read leaves it where it was.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor positioned at the start of buf
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current read position
func (c *Cursor) Offset() int {
	return c.pos
}

// Len returns the total buffer length
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// take returns the next n bytes and advances past them
func (c *Cursor) take(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) require(n int) error {
	if n < 0 || c.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferExhausted, n, c.pos, c.Remaining())
	}
	return nil
}

// Skip consumes n bytes without interpreting them
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// ReadU8 reads a single byte
func (c *Cursor) ReadU8() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI32 reads a little-endian 32-bit signed integer
func (c *Cursor) ReadI32() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadI64 reads a little-endian 64-bit signed integer
func (c *Cursor) ReadI64() (int64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// ReadF32 reads a little-endian IEEE-754 32-bit float
func (c *Cursor) ReadF32() (float32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadBool reads one byte; any non-zero value is true
func (c *Cursor) ReadBool() (bool, error) {
	b, err := c.ReadU8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadString reads a string prefixed by a single length byte.
// The prefix is only consumed together with a complete, valid body.
func (c *Cursor) ReadString() (string, error) {
	if err := c.require(1); err != nil {
		return "", err
	}
	n := int(c.buf[c.pos])
	if err := c.require(1 + n); err != nil {
		return "", err
	}

	body := c.buf[c.pos+1 : c.pos+1+n]
	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: %d bytes at offset %d", ErrEncoding, n, c.pos+1)
	}

	c.pos += 1 + n
	return string(body), nil
}
