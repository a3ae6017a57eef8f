//go:build fuzz
// +build fuzz

package itemdata

import (
	"encoding/base64"
	"testing"
)

// FuzzParse_Totality checks that arbitrary bytes either decode fully or fail cleanly
func FuzzParse_Totality(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x01, 0x00, 0x00, 0x00})
	f.Add(newBlob().header(1, 0).bytes())
	f.Add(newBlob().header(1, 1).item(sampleItem()).bytes())
	f.Add(newBlob().header(1, 2).item(sampleItem()).bytes())
	f.Add(newBlob().header(1, -1).bytes())

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		text := base64.StdEncoding.EncodeToString(data)
		inv, err := Parse(text)
		if err != nil {
			if inv != nil {
				t.Fatalf("Parse returned an inventory with error %v", err)
			}
			if Kind(err) == KindUnknown {
				t.Fatalf("Parse returned an unclassified error: %v", err)
			}
			return
		}

		_, _, count, err := ReadHeader(text)
		if err != nil {
			t.Fatalf("ReadHeader failed after Parse succeeded: %v", err)
		}
		if len(inv.Items) != int(count) {
			t.Fatalf("Parse returned %d items, header says %d", len(inv.Items), count)
		}
	})
}

// FuzzCursor_NeverOverruns checks cursor offsets stay within the buffer
func FuzzCursor_NeverOverruns(f *testing.F) {
	f.Add([]byte{0x05, 'a', 'b'})
	f.Add(newBlob().item(sampleItem()).bytes())

	f.Fuzz(func(t *testing.T, data []byte) {
		c := NewCursor(data)
		for c.Remaining() > 0 {
			before := c.Offset()
			if _, err := DecodeItem(c); err != nil {
				if c.Offset() != before {
					t.Fatalf("failed decode moved cursor from %d to %d", before, c.Offset())
				}
				return
			}
			if c.Offset() <= before || c.Offset() > c.Len() {
				t.Fatalf("bad offset %d after decode (start %d, len %d)", c.Offset(), before, c.Len())
			}
		}
	})
}
