// Package itemdata decodes the binary item records embedded in Valheim save data.
//
// The save converter produces a JSON document in which each inventory is stored as a
// base64 string. Once decoded, that string holds a small header followed by a sequence
// of length-prefixed item records. This package turns those bytes into Item values.
// It only decodes; there is no encoder.
//
// # Wire Format
//
// All integers and floats are little-endian:
//
//	[Version(4)][Count(4)][Item]...[Item]
//
// Each item is laid out as:
//
//	[NameLen(1)][Name][Stack(4)][Durability(4)][PosX(4)][PosY(4)][Equipped(1)]
//	[Quality(4)][Variant(4)][CrafterID(8)][CrafterNameLen(1)][CrafterName]
//
// Fields:
//   - Version: format marker, returned to the caller but not interpreted
//   - Count: number of items that follow, must not be negative
//   - Name, CrafterName: UTF-8 text prefixed by a single length byte (0-255)
//   - Stack, PosX, PosY, Quality, Variant: 32-bit signed integers
//   - Durability: 32-bit IEEE-754 float
//   - Equipped: one byte, any non-zero value is true
//   - CrafterID: 64-bit signed integer, 0 when unset
//
// The field order is a format contract. Bytes after the last item are ignored.
//
// Some save versions pad every item with extra bytes. Use WithItemTrailer to skip them:
//
//	dec := itemdata.NewDecoder(itemdata.WithItemTrailer(itemdata.ValheimTrailer))
//
// # Usage
//
//	inv, err := itemdata.Parse(encoded)
//	if err != nil {
//	    return err
//	}
//	for _, item := range inv.Items {
//	    fmt.Println(item.Name, item.Stack)
//	}
//
// # Error Handling
//
// Parse is all-or-nothing: it returns every item the header announces or an error.
// Errors wrap one of ErrInvalidEncoding, ErrBufferExhausted, ErrEncoding or
// ErrMalformedHeader and can be matched with errors.Is. Failures inside an item are
// reported as *ItemError carrying the item index and byte offset.
//
// Text must be standard padded base64 with no whitespace. Line breaks are rejected with
// ErrInvalidEncoding; callers reading from files trim the text first.
//
// Callers that prefer whatever could be read use Decoder.Collect, or drive DecodeItem
// over their own Cursor.
//
// # Thread Safety
//
// A Decoder is immutable and safe for concurrent use. A Cursor is not; each decode owns
// its own cursor.
package itemdata
