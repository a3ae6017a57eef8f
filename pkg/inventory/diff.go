package inventory

import (
	"math"

	"github.com/ssargent/valheimsave/pkg/itemdata"
)

// Change is an item that stayed in its slot but was modified
type Change struct {
	Before itemdata.Item `json:"before"`
	After  itemdata.Item `json:"after"`
}

// Changes describes how one inventory turned into another
type Changes struct {
	Added   []itemdata.Item `json:"added"`
	Removed []itemdata.Item `json:"removed"`
	Changed []Change        `json:"changed"`
}

// Empty reports whether the two inventories were identical
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

type slotKey struct {
	name string
	x, y int32
}

func keyOf(item itemdata.Item) slotKey {
	return slotKey{name: item.Name, x: item.PosX, y: item.PosY}
}

// Diff matches items by name and grid slot. Duplicates of the same key are
// paired in inventory order.
func Diff(before, after []itemdata.Item) Changes {
	pending := make(map[slotKey][]int)
	for i, item := range before {
		k := keyOf(item)
		pending[k] = append(pending[k], i)
	}

	matched := make([]bool, len(before))
	var changes Changes
	for _, item := range after {
		k := keyOf(item)
		queue := pending[k]
		if len(queue) == 0 {
			changes.Added = append(changes.Added, item)
			continue
		}
		idx := queue[0]
		pending[k] = queue[1:]
		matched[idx] = true
		if !sameItem(before[idx], item) {
			changes.Changed = append(changes.Changed, Change{Before: before[idx], After: item})
		}
	}

	for i, item := range before {
		if !matched[i] {
			changes.Removed = append(changes.Removed, item)
		}
	}

	return changes
}

// sameItem compares every field; two NaN durabilities are equal
func sameItem(a, b itemdata.Item) bool {
	nan := math.IsNaN(float64(a.Durability)) && math.IsNaN(float64(b.Durability))
	if nan {
		a.Durability, b.Durability = 0, 0
	}
	return a == b
}
