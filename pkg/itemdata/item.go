package itemdata

import (
	"encoding/json"
	"fmt"
	"math"
)

// Item is one decoded inventory slot
type Item struct {
	Name        string  `json:"name"`         // item type identifier
	Stack       int32   `json:"stack"`        // quantity
	Durability  float32 `json:"durability"`   // may be zero or negative for stack-only items
	PosX        int32   `json:"pos_x"`        // grid column
	PosY        int32   `json:"pos_y"`        // grid row
	Equipped    bool    `json:"equipped"`     // stored byte was non-zero
	Quality     int32   `json:"quality"`      // upgrade level
	Variant     int32   `json:"variant"`      // sub-variant selector
	CrafterID   int64   `json:"crafter_id"`   // 0 when unset
	CrafterName string  `json:"crafter_name"` // may be empty
}

type itemJSON Item

// MarshalJSON writes non-finite durability as "NaN", "+Inf" or "-Inf"
func (it Item) MarshalJSON() ([]byte, error) {
	var durability any = it.Durability
	switch d := float64(it.Durability); {
	case math.IsNaN(d):
		durability = "NaN"
	case math.IsInf(d, 1):
		durability = "+Inf"
	case math.IsInf(d, -1):
		durability = "-Inf"
	}
	return json.Marshal(struct {
		itemJSON
		Durability any `json:"durability"`
	}{itemJSON(it), durability})
}

// UnmarshalJSON accepts durability as a number, null, or one of the
// strings written by MarshalJSON.
func (it *Item) UnmarshalJSON(data []byte) error {
	aux := struct {
		*itemJSON
		Durability json.RawMessage `json:"durability"`
	}{itemJSON: (*itemJSON)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	it.Durability = 0
	if len(aux.Durability) == 0 || string(aux.Durability) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(aux.Durability, &s); err != nil {
		return json.Unmarshal(aux.Durability, &it.Durability)
	}
	switch s {
	case "NaN":
		it.Durability = float32(math.NaN())
	case "+Inf", "Inf":
		it.Durability = float32(math.Inf(1))
	case "-Inf":
		it.Durability = float32(math.Inf(-1))
	default:
		return fmt.Errorf("durability: unsupported value %q", s)
	}
	return nil
}

// minItemSize is the encoded size of an item with empty strings
const minItemSize = 1 + 4 + 4 + 4 + 4 + 1 + 4 + 4 + 8 + 1

// DecodeItem reads one item from c in wire order.
// On failure the cursor is rewound to where the item started.
func DecodeItem(c *Cursor) (Item, error) {
	start := c.pos
	item, err := decodeFields(c)
	if err != nil {
		c.pos = start
		return Item{}, err
	}
	return item, nil
}

func decodeFields(c *Cursor) (Item, error) {
	var (
		it  Item
		err error
	)

	if it.Name, err = c.ReadString(); err != nil {
		return it, fieldErr("name", err)
	}
	if it.Stack, err = c.ReadI32(); err != nil {
		return it, fieldErr("stack", err)
	}
	if it.Durability, err = c.ReadF32(); err != nil {
		return it, fieldErr("durability", err)
	}
	if it.PosX, err = c.ReadI32(); err != nil {
		return it, fieldErr("pos_x", err)
	}
	if it.PosY, err = c.ReadI32(); err != nil {
		return it, fieldErr("pos_y", err)
	}
	if it.Equipped, err = c.ReadBool(); err != nil {
		return it, fieldErr("equipped", err)
	}
	if it.Quality, err = c.ReadI32(); err != nil {
		return it, fieldErr("quality", err)
	}
	if it.Variant, err = c.ReadI32(); err != nil {
		return it, fieldErr("variant", err)
	}
	if it.CrafterID, err = c.ReadI64(); err != nil {
		return it, fieldErr("crafter_id", err)
	}
	if it.CrafterName, err = c.ReadString(); err != nil {
		return it, fieldErr("crafter_name", err)
	}

	return it, nil
}

func fieldErr(field string, err error) error {
	return fmt.Errorf("field %s: %w", field, err)
}
