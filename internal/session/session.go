// Package session hosts per-user ordering sessions: a catalog view, an
// aggregating cart ledger, and a checkout flow over the backend boundary.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/item-purchase-service/internal/backend"
	"github.com/fairyhunter13/item-purchase-service/internal/cart"
	"github.com/fairyhunter13/item-purchase-service/internal/catalog"
	"github.com/fairyhunter13/item-purchase-service/internal/checkout"
	"github.com/fairyhunter13/item-purchase-service/internal/model"
	"github.com/fairyhunter13/item-purchase-service/internal/obs"
)

// ErrNotManager is returned when a non-manager attempts the create-item
// operation. The manager flag comes from the backend role check; the
// session never re-implements authorization.
var ErrNotManager = errors.New("user is not a manager")

// ErrUnknownItem is returned when an add-to-cart names an item that is
// not in the catalog.
var ErrUnknownItem = errors.New("unknown item")

// Session is one user's ordering session. The account and user context
// are fixed at creation (sourced from the host's deep-link state) and the
// account record is resolved at most once.
type Session struct {
	ID        string
	AccountID string
	UserID    string
	CreatedAt time.Time

	svc    backend.Service
	view   *catalog.View
	ledger *cart.Ledger
	flow   *checkout.Flow
	feed   *feed

	mu        sync.RWMutex
	account   model.Account
	resolved  bool
	manager   bool
	families  []string
	picklists []model.PicklistEntry
}

// Options is the filter-building state exposed to the host shell.
type Options struct {
	Types     []string              `json:"types"`
	Families  []string              `json:"families"`
	Picklists []model.PicklistEntry `json:"picklists"`
	Manager   bool                  `json:"manager"`
}

// New constructs a session bound to the given backend and account/user
// context. feedCap bounds the outbound notification backlog.
func New(svc backend.Service, accountID, userID string, feedCap int) *Session {
	ledger := cart.New()
	return &Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		svc:       svc,
		view:      catalog.New(),
		ledger:    ledger,
		flow:      checkout.New(svc, ledger),
		feed:      newFeed(feedCap),
	}
}

// Start resolves the session's initial state: catalog, account record,
// family tags, picklist values, and the manager flag are fetched
// concurrently and in no particular order. Every fetch failure is
// non-fatal: the affected view keeps its previous (or empty) state and
// the failure is logged and surfaced as a notification.
func (s *Session) Start(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.svc.FetchItems(ctx)
		if err != nil {
			s.fetchFailed("catalog", err)
			return nil
		}
		s.view.Load(items)
		return nil
	})
	g.Go(func() error {
		if s.AccountID == "" {
			return nil
		}
		acc, err := s.svc.FetchAccount(ctx, s.AccountID)
		if err != nil {
			s.fetchFailed("account", err)
			return nil
		}
		s.mu.Lock()
		s.account = acc
		s.resolved = true
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		fams, err := s.svc.FetchItemFamilies(ctx)
		if err != nil {
			s.fetchFailed("item families", err)
			return nil
		}
		s.mu.Lock()
		s.families = fams
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		pls, err := s.svc.FetchPicklistValues(ctx)
		if err != nil {
			s.fetchFailed("picklist values", err)
			return nil
		}
		s.mu.Lock()
		s.picklists = pls
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		if s.UserID == "" {
			return nil
		}
		mgr, err := s.svc.IsManager(ctx, s.UserID)
		if err != nil {
			s.fetchFailed("manager check", err)
			return nil
		}
		s.mu.Lock()
		s.manager = mgr
		s.mu.Unlock()
		return nil
	})
	_ = g.Wait()
}

func (s *Session) fetchFailed(what string, err error) {
	obs.Logger.Warn("fetch_failed", "session_id", s.ID, "what", what, "error", err)
	s.feed.push(model.Notification{
		Kind:    model.NoteFetchFailed,
		Message: fmt.Sprintf("failed to load %s", what),
		At:      time.Now().UTC(),
	})
}

// VisibleItems returns the filtered+searched catalog view.
func (s *Session) VisibleItems() []model.Item { return s.view.VisibleItems() }

// SetFilter replaces the filter state.
func (s *Session) SetFilter(f catalog.FilterState) { s.view.SetFilter(f) }

// SetSearch replaces the search query.
func (s *Session) SetSearch(q string) { s.view.SetSearch(q) }

// Options returns the filter option lists and the manager flag. Family
// tags observed in the catalog come first, followed by backend-supplied
// tags not present in the catalog.
func (s *Session) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	families := s.view.DistinctFamilies()
	seen := make(map[string]bool, len(families))
	for _, f := range families {
		seen[f] = true
	}
	for _, f := range s.families {
		if !seen[f] {
			seen[f] = true
			families = append(families, f)
		}
	}
	return Options{
		Types:     s.view.DistinctTypes(),
		Families:  families,
		Picklists: append([]model.PicklistEntry(nil), s.picklists...),
		Manager:   s.manager,
	}
}

// Account returns the resolved account record, if any.
func (s *Session) Account() (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.resolved
}

// Manager reports whether the backend identified the user as a manager.
func (s *Session) Manager() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

// AddToCart records one unit of the named catalog item and emits an
// item-added notification. It reports whether a new cart line was created
// (false means an existing line's quantity was bumped).
func (s *Session) AddToCart(itemID string) (bool, error) {
	item, ok := s.view.Item(itemID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	newLine := s.ledger.Add(item)
	msg := fmt.Sprintf("%s added to cart", item.Name)
	if !newLine {
		msg = fmt.Sprintf("%s quantity increased", item.Name)
	}
	s.feed.push(model.Notification{Kind: model.NoteItemAdded, Message: msg, At: time.Now().UTC()})
	return newLine, nil
}

// CartLines returns the cart contents in first-add order.
func (s *Session) CartLines() []model.CartLine { return s.ledger.Lines() }

// Checkout submits the cart and converts the outcome into a notification
// for the host shell. The outcome is also returned so transports can map
// it to a status code.
func (s *Session) Checkout(ctx context.Context) checkout.Outcome {
	out := s.flow.Submit(ctx, s.AccountID)
	now := time.Now().UTC()
	switch out.Kind {
	case checkout.OutcomeCompleted:
		obs.Logger.Info("checkout_succeeded", "session_id", s.ID, "purchase_id", out.PurchaseID)
		s.feed.push(model.Notification{Kind: model.NoteCheckoutSucceeded, Message: out.PurchaseID, At: now})
	case checkout.OutcomeValidationFailed:
		s.feed.push(model.Notification{Kind: model.NoteCheckoutInvalid, Message: out.Message, At: now})
	case checkout.OutcomeSubmissionFailed:
		obs.Logger.Warn("checkout_failed", "session_id", s.ID, "error", out.Message)
		s.feed.push(model.Notification{Kind: model.NoteCheckoutFailed, Message: out.Message, At: now})
	}
	return out
}

// CreateItem creates a catalog item through the backend. Only users the
// backend identified as managers may call it. On success the catalog is
// re-fetched so the new item becomes browsable; on failure the catalog is
// left untouched.
func (s *Session) CreateItem(ctx context.Context, item model.Item) error {
	if !s.Manager() {
		return ErrNotManager
	}
	now := time.Now().UTC()
	if err := s.svc.CreateItem(ctx, item); err != nil {
		obs.Logger.Warn("item_creation_failed", "session_id", s.ID, "item_id", item.ID, "error", err)
		s.feed.push(model.Notification{Kind: model.NoteItemCreateFailed, Message: backend.ErrorMessage(err), At: now})
		return err
	}
	s.feed.push(model.Notification{Kind: model.NoteItemCreated, Message: item.Name, At: now})
	items, err := s.svc.FetchItems(ctx)
	if err != nil {
		s.fetchFailed("catalog", err)
		return nil
	}
	s.view.Load(items)
	return nil
}

// Notifications drains the pending outbound notifications.
func (s *Session) Notifications() []model.Notification { return s.feed.drain() }

// FeedMetrics exposes notification feed counters for observability.
func (s *Session) FeedMetrics() (emitted, drained, dropped uint64, pending int) {
	return s.feed.metrics()
}
