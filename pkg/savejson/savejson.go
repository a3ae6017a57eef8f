// Package savejson locates encoded inventories inside the JSON documents written
// by the save converter.
package savejson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/ssargent/valheimsave/pkg/itemdata"
)

// DefaultField is the key under which the converter stores inventories
const DefaultField = "inventory"

// ErrInvalidDocument is returned when the input is not a single JSON value
var ErrInvalidDocument = errors.New("invalid json document")

// Blob is one base64 inventory string and where it was found
type Blob struct {
	Path string `json:"path"`
	Data string `json:"data"`
}

// Find returns every string stored under key field, in document order.
// Paths use dots for object keys and [i] for array indexes, e.g. "players[0].inventory".
// Non-string values under field are searched recursively.
func Find(doc []byte, field string) ([]Blob, error) {
	if field == "" {
		field = DefaultField
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	var blobs []Blob
	if err := walk(dec, "", field, &blobs); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrInvalidDocument)
	}

	return blobs, nil
}

func walk(dec *json.Decoder, path, field string, out *[]Blob) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil // scalar
	}

	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
			}
			key, _ := keyTok.(string)
			child := joinKey(path, key)

			if key != field {
				if err := walk(dec, child, field, out); err != nil {
					return err
				}
				continue
			}

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) > 0 && raw[0] == '"' {
				var s string
				if err := json.Unmarshal(raw, &s); err != nil {
					return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
				}
				*out = append(*out, Blob{Path: child, Data: s})
				continue
			}
			if err := walk(json.NewDecoder(bytes.NewReader(raw)), child, field, out); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; dec.More(); i++ {
			if err := walk(dec, path+"["+strconv.Itoa(i)+"]", field, out); err != nil {
				return err
			}
		}
	}

	// closing delimiter
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Result is the outcome of decoding one blob
type Result struct {
	Path      string              `json:"path"`
	Inventory *itemdata.Inventory `json:"inventory,omitempty"`
	Error     string              `json:"error,omitempty"`
	Kind      string              `json:"kind,omitempty"`
	Err       error               `json:"-"`
}

// DecodeAll finds every inventory under field and parses each one with dec.
// A blob that fails to decode is reported in its Result and does not stop the others.
func DecodeAll(doc []byte, field string, dec *itemdata.Decoder) ([]Result, error) {
	blobs, err := Find(doc, field)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(blobs))
	for _, b := range blobs {
		r := Result{Path: b.Path}
		inv, err := dec.Parse(b.Data)
		if err != nil {
			r.Err = err
			r.Error = err.Error()
			r.Kind = itemdata.Kind(err)
		} else {
			r.Inventory = inv
		}
		results = append(results, r)
	}

	return results, nil
}

// Failures combines the errors of every result that failed to decode.
// It returns nil when all results decoded.
func Failures(results []Result) error {
	var merr *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return merr.ErrorOrNil()
}
