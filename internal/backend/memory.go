package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fairyhunter13/item-purchase-service/internal/model"
	"golang.org/x/text/currency"
)

// Purchase is a checkout recorded by the simulator.
type Purchase struct {
	ID        string
	AccountID string
	Lines     []model.CheckoutLine
	Currency  currency.Unit
	CreatedAt time.Time
}

// Memory is an in-memory Service implementation. It simulates the remote
// catalog/account/purchase backend so the tool can run without external
// infrastructure; tests use it as a deterministic fixture.
type Memory struct {
	mu        sync.RWMutex
	items     []model.Item
	itemIndex map[string]int
	accounts  map[string]model.Account
	managers  map[string]bool
	picklists []model.PicklistEntry
	purchases map[string]Purchase
	seq       Sequencer
	cur       currency.Unit
}

// NewMemory constructs an empty simulator backend recording purchases in
// the given currency.
func NewMemory(cur currency.Unit) *Memory {
	return &Memory{
		itemIndex: make(map[string]int),
		accounts:  make(map[string]model.Account),
		managers:  make(map[string]bool),
		purchases: make(map[string]Purchase),
		cur:       cur,
	}
}

// SeedItems loads the initial catalog, replacing any previous seed.
func (m *Memory) SeedItems(items []model.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.itemIndex = make(map[string]int)
	for _, it := range items {
		if _, ok := m.itemIndex[it.ID]; ok {
			continue
		}
		m.itemIndex[it.ID] = len(m.items)
		m.items = append(m.items, it)
	}
}

// SeedAccounts registers purchasing accounts.
func (m *Memory) SeedAccounts(accounts ...model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

// SeedManagers marks the given user IDs as managers.
func (m *Memory) SeedManagers(userIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range userIDs {
		m.managers[id] = true
	}
}

// SeedPicklists loads the categorical value lists, replacing any previous seed.
func (m *Memory) SeedPicklists(entries []model.PicklistEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.picklists = append([]model.PicklistEntry(nil), entries...)
}

func (m *Memory) FetchItems(ctx context.Context) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *Memory) FetchAccount(ctx context.Context, accountID string) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return model.Account{}, &ServiceError{Code: "account_not_found", Message: fmt.Sprintf("no account %q", accountID)}
	}
	return a, nil
}

func (m *Memory) FetchItemFamilies(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.picklists {
		if e.Kind != "family" || seen[e.Value] {
			continue
		}
		seen[e.Value] = true
		out = append(out, e.Value)
	}
	for _, it := range m.items {
		if it.Family == "" || seen[it.Family] {
			continue
		}
		seen[it.Family] = true
		out = append(out, it.Family)
	}
	return out, nil
}

func (m *Memory) FetchPicklistValues(ctx context.Context) ([]model.PicklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PicklistEntry, len(m.picklists))
	copy(out, m.picklists)
	return out, nil
}

func (m *Memory) IsManager(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.managers[userID], nil
}

func (m *Memory) CreateItem(ctx context.Context, item model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !item.Valid() {
		return &ServiceError{Code: "validation_error", Message: "item requires an id, a name, and a non-negative unit price"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.itemIndex[item.ID]; ok {
		return &ServiceError{Code: "duplicate_item", Message: fmt.Sprintf("item %q already exists", item.ID)}
	}
	m.itemIndex[item.ID] = len(m.items)
	m.items = append(m.items, item)
	return nil
}

func (m *Memory) SubmitCheckout(ctx context.Context, accountID string, lines []model.CheckoutLine) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if accountID == "" {
		return "", &ServiceError{Code: "validation_error", Message: "account id is required"}
	}
	if len(lines) == 0 {
		return "", &ServiceError{Code: "validation_error", Message: "checkout payload is empty"}
	}
	for _, l := range lines {
		if l.ItemID == "" || l.Amount < 1 || l.UnitCost.IsNegative() {
			return "", &ServiceError{Code: "validation_error", Message: fmt.Sprintf("invalid checkout line for item %q", l.ItemID)}
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[accountID]; !ok {
		return "", &ServiceError{Code: "account_not_found", Message: fmt.Sprintf("no account %q", accountID)}
	}
	for _, l := range lines {
		if _, ok := m.itemIndex[l.ItemID]; !ok {
			return "", &ServiceError{Code: "item_not_found", Message: fmt.Sprintf("no item %q", l.ItemID)}
		}
	}
	id := fmt.Sprintf("PUR-%06d", m.seq.Next())
	m.purchases[id] = Purchase{
		ID:        id,
		AccountID: accountID,
		Lines:     append([]model.CheckoutLine(nil), lines...),
		Currency:  m.cur,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

// Purchase returns a recorded purchase by ID.
func (m *Memory) Purchase(id string) (Purchase, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.purchases[id]
	return p, ok
}

// PurchaseCount returns the number of recorded purchases.
func (m *Memory) PurchaseCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.purchases)
}
