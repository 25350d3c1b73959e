// Package catalog holds the session's item catalog and its derived
// filtered/searched view.
package catalog

import (
	"strings"
	"sync"

	"github.com/fairyhunter13/item-purchase-service/internal/model"
)

// FilterState constrains the visible view by categorical tags. An empty
// set places no constraint on its dimension.
type FilterState struct {
	Types    []string `json:"types"`
	Families []string `json:"families"`
}

// View owns the full catalog and a derived visible list. The visible list
// is recomputed from scratch after every mutation rather than patched
// incrementally, so it can never drift from its inputs.
type View struct {
	mu       sync.RWMutex
	items    []model.Item
	types    []string
	families []string
	filter   FilterState
	query    string
	visible  []model.Item
}

// New returns an empty View.
func New() *View {
	return &View{}
}

// Load replaces the full catalog. Malformed entries are skipped rather
// than failing the load, and the distinct type/family sets are rebuilt in
// first-seen order. The current filter and search query are re-applied.
func (v *View) Load(items []model.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = nil
	v.types = nil
	v.families = nil
	seenType := make(map[string]bool)
	seenFamily := make(map[string]bool)
	for _, it := range items {
		if !it.Valid() {
			continue
		}
		v.items = append(v.items, it)
		if it.Type != "" && !seenType[it.Type] {
			seenType[it.Type] = true
			v.types = append(v.types, it.Type)
		}
		if it.Family != "" && !seenFamily[it.Family] {
			seenFamily[it.Family] = true
			v.families = append(v.families, it.Family)
		}
	}
	v.visible = deriveVisible(v.items, v.filter, v.query)
}

// SetFilter replaces the filter state and re-derives the visible list.
// The search query stays applied.
func (v *View) SetFilter(f FilterState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
	v.visible = deriveVisible(v.items, v.filter, v.query)
}

// SetSearch replaces the search query (case-insensitive substring over
// name and description) and re-derives the visible list.
func (v *View) SetSearch(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = strings.ToLower(query)
	v.visible = deriveVisible(v.items, v.filter, v.query)
}

// VisibleItems returns the current filtered+searched view in catalog order.
func (v *View) VisibleItems() []model.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]model.Item, len(v.visible))
	copy(out, v.visible)
	return out
}

// Item looks up a catalog entry by ID, regardless of the current view.
func (v *View) Item(id string) (model.Item, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, it := range v.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// DistinctTypes returns the type tags observed in the catalog in
// first-seen order.
func (v *View) DistinctTypes() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.types...)
}

// DistinctFamilies returns the family tags observed in the catalog in
// first-seen order.
func (v *View) DistinctFamilies() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.families...)
}

// deriveVisible recomputes the visible list from the catalog, the filter,
// and the lowercased search query. It is pure: items are never mutated,
// only selected.
func deriveVisible(items []model.Item, f FilterState, query string) []model.Item {
	var out []model.Item
	for _, it := range items {
		if !matchesFilter(it, f) {
			continue
		}
		if !matchesQuery(it, query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesFilter(it model.Item, f FilterState) bool {
	if len(f.Types) > 0 && !contains(f.Types, it.Type) {
		return false
	}
	if len(f.Families) > 0 && !contains(f.Families, it.Family) {
		return false
	}
	return true
}

func matchesQuery(it model.Item, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Name), query) ||
		strings.Contains(strings.ToLower(it.Description), query)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
