// Package model defines domain types used by the service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a purchasable catalog entry. Items are supplied by the backend
// and treated as immutable by the session layer.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type,omitempty"`
	Family      string          `json:"family,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Valid reports whether the item is well formed enough to be listed.
// Malformed entries are skipped on catalog load rather than failing it.
func (it Item) Valid() bool {
	return it.ID != "" && it.Name != "" && !it.UnitPrice.IsNegative()
}

// Account is the purchasing account resolved from the deep-link context.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PicklistEntry is a backend-supplied categorical value for filtering
// and item creation. Kind is either "type" or "family".
type PicklistEntry struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// CartLine is one aggregated cart entry. Quantity is always >= 1 and
// there is at most one line per item ID.
type CartLine struct {
	ItemID   string          `json:"item_id"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Quantity int             `json:"quantity"`
}

// CheckoutLine is one entry of the checkout payload submitted to the
// backend: duplicate adds of the same item collapse into a single line
// with the summed amount.
type CheckoutLine struct {
	ItemID   string          `json:"item_id"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Amount   int             `json:"amount"`
}

// Notification kinds emitted by a session for its host shell.
const (
	NoteItemAdded         = "item_added"
	NoteCheckoutInvalid   = "checkout_validation_failed"
	NoteCheckoutSucceeded = "checkout_succeeded"
	NoteCheckoutFailed    = "checkout_failed"
	NoteItemCreated       = "item_created"
	NoteItemCreateFailed  = "item_creation_failed"
	NoteFetchFailed       = "fetch_failed"
)

// Notification is an outbound event for the host shell (toast feed).
type Notification struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}
