// Package inventory answers questions about decoded inventories: what is equipped,
// what is worn out, who crafted what, and what changed between two reads.
package inventory

import (
	"math"
	"sort"
	"strings"

	"github.com/ssargent/valheimsave/pkg/itemdata"
)

// DefaultDamageThreshold is the durability below which an item counts as damaged
const DefaultDamageThreshold = 50.0

// NameCount pairs a name with how often it occurs
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DurabilityStats covers items whose durability is finite and above zero
type DurabilityStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
}

// Summary is an overview of one inventory
type Summary struct {
	Total      int              `json:"total"`
	Equipped   int              `json:"equipped"`
	ByName     []NameCount      `json:"by_name"`
	Quality    map[int32]int    `json:"quality"`
	Durability *DurabilityStats `json:"durability,omitempty"`
	Crafters   []NameCount      `json:"crafters"`
}

// Summarize counts items by name, quality and crafter.
// ByName and Crafters are sorted by count, most common first, then by name.
func Summarize(items []itemdata.Item) Summary {
	s := Summary{
		Total:   len(items),
		Quality: make(map[int32]int),
	}

	names := make(map[string]int)
	crafters := make(map[string]int)
	var durable DurabilityStats
	var sum float64

	for _, item := range items {
		names[item.Name]++
		s.Quality[item.Quality]++
		if item.Equipped {
			s.Equipped++
		}
		if item.CrafterName != "" {
			crafters[item.CrafterName]++
		}
		if d := float64(item.Durability); d > 0 && !math.IsInf(d, 1) {
			if durable.Count == 0 || d < durable.Min {
				durable.Min = d
			}
			durable.Count++
			sum += d
		}
	}

	if durable.Count > 0 {
		durable.Average = sum / float64(durable.Count)
		s.Durability = &durable
	}
	s.ByName = sortedCounts(names)
	s.Crafters = sortedCounts(crafters)

	return s
}

func sortedCounts(m map[string]int) []NameCount {
	out := make([]NameCount, 0, len(m))
	for name, count := range m {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Equipped returns the equipped items in inventory order
func Equipped(items []itemdata.Item) []itemdata.Item {
	var out []itemdata.Item
	for _, item := range items {
		if item.Equipped {
			out = append(out, item)
		}
	}
	return out
}

// Damaged returns items with 0 < durability < threshold, most worn first
func Damaged(items []itemdata.Item, threshold float64) []itemdata.Item {
	var out []itemdata.Item
	for _, item := range items {
		d := float64(item.Durability)
		if d > 0 && d < threshold {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Durability < out[j].Durability
	})
	return out
}

// Category groups item names by substring
type Category struct {
	Name     string
	Keywords []string
}

// Categories are matched case-sensitively against item names, in this order
var Categories = []Category{
	{Name: "Weapons", Keywords: []string{"Sword", "Axe", "Bow", "Spear", "Mace", "Knife", "Club"}},
	{Name: "Armor", Keywords: []string{"Armor", "Helmet", "Legs", "Cape"}},
	{Name: "Tools", Keywords: []string{"Pickaxe", "Hoe", "Hammer", "Cultivator"}},
	{Name: "Food", Keywords: []string{"Meat", "Fish", "Berry", "Mushroom", "Bread", "Pie"}},
	{Name: "Resources", Keywords: []string{"Wood", "Stone", "Iron", "Copper", "Tin", "Bronze"}},
}

// CategoryItems is one populated category
type CategoryItems struct {
	Name  string          `json:"name"`
	Items []itemdata.Item `json:"items"`
}

// Categorize buckets items into Categories. An item may land in several
// categories; empty categories are left out.
func Categorize(items []itemdata.Item) []CategoryItems {
	var out []CategoryItems
	for _, cat := range Categories {
		var matched []itemdata.Item
		for _, item := range items {
			if cat.matches(item.Name) {
				matched = append(matched, item)
			}
		}
		if len(matched) > 0 {
			out = append(out, CategoryItems{Name: cat.Name, Items: matched})
		}
	}
	return out
}

func (c Category) matches(name string) bool {
	for _, kw := range c.Keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
