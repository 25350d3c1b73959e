// Package cart implements the aggregating cart ledger.
//
// Earlier revisions of the purchase tool kept the cart as a flat list and
// appended one payload line per add click, double-counting repeated adds
// of the same item at checkout. The ledger aggregates by item ID instead,
// which is the only correct behavior.
package cart

import (
	"sync"

	"github.com/fairyhunter13/item-purchase-service/internal/model"
)

// Ledger holds the pending selection, at most one line per item ID, in
// first-add order.
type Ledger struct {
	mu    sync.Mutex
	lines []model.CartLine
	index map[string]int
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Add records one unit of the item. If a line for the item already exists
// its quantity is incremented, otherwise a new line is appended. The
// return value reports whether a new line was created, which callers use
// to pick notification wording.
func (l *Ledger) Add(item model.Item) (newLine bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i, ok := l.index[item.ID]; ok {
		l.lines[i].Quantity++
		return false
	}
	l.index[item.ID] = len(l.lines)
	l.lines = append(l.lines, model.CartLine{
		ItemID:   item.ID,
		UnitCost: item.UnitPrice,
		Quantity: 1,
	})
	return true
}

// Clear empties the ledger. Called only after a confirmed successful
// checkout.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
	l.index = make(map[string]int)
}

// Lines returns the cart lines in insertion order.
func (l *Ledger) Lines() []model.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// IsEmpty reports whether the ledger holds no lines.
func (l *Ledger) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines) == 0
}

// ToCheckoutPayload produces one entry per distinct item with the summed
// quantity as its amount.
func (l *Ledger) ToCheckoutPayload() []model.CheckoutLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.CheckoutLine, 0, len(l.lines))
	for _, ln := range l.lines {
		out = append(out, model.CheckoutLine{
			ItemID:   ln.ItemID,
			UnitCost: ln.UnitCost,
			Amount:   ln.Quantity,
		})
	}
	return out
}
