package itemdata

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	// headerSize is Version(4) + Count(4)
	headerSize = 8

	// ValheimTrailer is the number of opaque bytes some save versions append to every
	// item: 8 bytes of unknown data followed by one more byte.
	ValheimTrailer = 9
)

// Inventory is the ordered list of items decoded from one encoded blob
type Inventory struct {
	Version int32  `json:"version"`
	Items   []Item `json:"items"`
}

// Option configures a Decoder
type Option func(*Decoder)

// WithItemTrailer makes the decoder skip n bytes after every item
func WithItemTrailer(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.trailer = n
		}
	}
}

// WithLogger sets the logger used to report items Collect could not decode
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Decoder turns base64 inventory blobs into items. It holds no per-call state.
type Decoder struct {
	trailer int
	logger  *slog.Logger
}

// NewDecoder creates a decoder for the plain wire layout unless options say otherwise
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trailer returns the number of bytes skipped after each item
func (d *Decoder) Trailer() int {
	return d.trailer
}

// Parse decodes base64 text with the default layout. See Decoder.Parse.
func Parse(text string) (*Inventory, error) {
	return NewDecoder().Parse(text)
}

// Parse decodes every item announced by the header.
// It either returns exactly Count items or an error, never a partial inventory.
func (d *Decoder) Parse(text string) (*Inventory, error) {
	c, err := openCursor(text)
	if err != nil {
		return nil, err
	}

	version, count, err := readHeader(c)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, d.capacity(count, c.Remaining()))
	for i := 0; i < int(count); i++ {
		start := c.Offset()
		item, err := d.DecodeItem(c)
		if err != nil {
			return nil, &ItemError{Index: i, Offset: start, Err: err}
		}
		items = append(items, item)
	}

	return &Inventory{Version: version, Items: items}, nil
}

// Collect decodes items until the first failure. Header failures return a nil
// inventory. Item failures return the items read so far together with an *ItemError.
func (d *Decoder) Collect(text string) (*Inventory, error) {
	c, err := openCursor(text)
	if err != nil {
		return nil, err
	}

	version, count, err := readHeader(c)
	if err != nil {
		return nil, err
	}

	inv := &Inventory{
		Version: version,
		Items:   make([]Item, 0, d.capacity(count, c.Remaining())),
	}
	for i := 0; i < int(count); i++ {
		start := c.Offset()
		item, err := d.DecodeItem(c)
		if err != nil {
			d.logger.Error("failed to decode item",
				"index", i,
				"count", count,
				"offset", start,
				"err", err)
			return inv, &ItemError{Index: i, Offset: start, Err: err}
		}
		inv.Items = append(inv.Items, item)
	}

	return inv, nil
}

// DecodeItem reads one item and skips the configured trailer.
// On failure the cursor is rewound to where the item started.
func (d *Decoder) DecodeItem(c *Cursor) (Item, error) {
	start := c.Offset()
	item, err := DecodeItem(c)
	if err != nil {
		return Item{}, err
	}
	if d.trailer > 0 {
		if err := c.Skip(d.trailer); err != nil {
			c.pos = start
			return Item{}, fieldErr("trailer", err)
		}
	}
	return item, nil
}

// ReadHeader decodes text and reads the inventory header, returning a cursor
// positioned at the first item. Callers use it to drive DecodeItem themselves.
func ReadHeader(text string) (c *Cursor, version int32, count int32, err error) {
	c, err = openCursor(text)
	if err != nil {
		return nil, 0, 0, err
	}
	version, count, err = readHeader(c)
	if err != nil {
		return nil, 0, 0, err
	}
	return c, version, count, nil
}

func openCursor(text string) (*Cursor, error) {
	// StdEncoding silently drops CR and LF
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return nil, fmt.Errorf("%w: line break at index %d", ErrInvalidEncoding, i)
	}
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return NewCursor(raw), nil
}

func readHeader(c *Cursor) (int32, int32, error) {
	if c.Remaining() < headerSize {
		return 0, 0, fmt.Errorf("%w: header needs %d bytes, have %d", ErrBufferExhausted, headerSize, c.Remaining())
	}

	version, err := c.ReadI32()
	if err != nil {
		return 0, 0, err
	}
	count, err := c.ReadI32()
	if err != nil {
		return 0, 0, err
	}
	if count < 0 {
		return 0, 0, fmt.Errorf("%w: item count %d", ErrMalformedHeader, count)
	}

	return version, count, nil
}

// capacity bounds the preallocation by what the remaining bytes could hold
func (d *Decoder) capacity(count int32, remaining int) int {
	fit := remaining / (minItemSize + d.trailer)
	if int(count) < fit {
		return int(count)
	}
	return fit
}
