package domain

import "sort"

// LowStockSet is the set of item ids at or below their reorder level
type LowStockSet map[string]struct{}

// EvaluateLowStock returns the ids of items with currentQty <= reorderLevel.
// The result does not depend on the order of items.
func EvaluateLowStock(items []*InventoryItem) LowStockSet {
	set := make(LowStockSet)
	for _, item := range items {
		if item.IsLowStock() {
			set[item.ID] = struct{}{}
		}
	}
	return set
}

// Contains reports whether id is in the set
func (s LowStockSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of low items
func (s LowStockSet) Len() int {
	return len(s)
}

// IDs returns the ids in ascending order
func (s LowStockSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LowStockItems returns the low items ordered by name then id
func LowStockItems(items []*InventoryItem) []*InventoryItem {
	set := EvaluateLowStock(items)
	low := make([]*InventoryItem, 0, set.Len())
	for _, item := range items {
		if set.Contains(item.ID) {
			low = append(low, item)
		}
	}
	sort.SliceStable(low, func(a, b int) bool {
		if low[a].Name != low[b].Name {
			return low[a].Name < low[b].Name
		}
		return low[a].ID < low[b].ID
	})
	return low
}
