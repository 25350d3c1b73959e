// Package checkout orchestrates submission of the cart to the backend.
package checkout

import (
	"context"
	"sync"

	"github.com/fairyhunter13/item-purchase-service/internal/backend"
	"github.com/fairyhunter13/item-purchase-service/internal/cart"
)

// OutcomeKind classifies the result of a checkout request.
type OutcomeKind string

const (
	// OutcomeCompleted carries the purchase ID returned by the backend.
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomeValidationFailed means the local precondition failed; no
	// backend call was made.
	OutcomeValidationFailed OutcomeKind = "validation_failed"
	// OutcomeSubmissionFailed means the backend rejected the submission;
	// the cart is left untouched for retry.
	OutcomeSubmissionFailed OutcomeKind = "submission_failed"
	// OutcomeBusy means another submission was already in flight.
	OutcomeBusy OutcomeKind = "busy"
)

// Outcome is the terminal result of one checkout attempt.
type Outcome struct {
	Kind       OutcomeKind
	PurchaseID string
	Message    string
}

// Flow runs checkout attempts against the backend. At most one submission
// is in flight at a time; a concurrent second request is rejected rather
// than interleaved, so a double-click cannot double-charge.
type Flow struct {
	svc    backend.Service
	ledger *cart.Ledger

	mu         sync.Mutex
	submitting bool
}

// New constructs a Flow over the given backend and ledger.
func New(svc backend.Service, ledger *cart.Ledger) *Flow {
	return &Flow{svc: svc, ledger: ledger}
}

// Submit validates preconditions, submits the aggregated cart payload,
// and resolves the outcome. On success the ledger is cleared; on backend
// failure it is preserved so the user can retry without re-adding items.
// No retry and no timeout are applied here; callers bound the attempt
// through ctx if they need one.
func (f *Flow) Submit(ctx context.Context, accountID string) Outcome {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Outcome{Kind: OutcomeBusy, Message: "a checkout is already in progress"}
	}
	if f.ledger.IsEmpty() {
		f.mu.Unlock()
		return Outcome{Kind: OutcomeValidationFailed, Message: "cart is empty"}
	}
	if accountID == "" {
		f.mu.Unlock()
		return Outcome{Kind: OutcomeValidationFailed, Message: "no account selected"}
	}
	f.submitting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	payload := f.ledger.ToCheckoutPayload()
	purchaseID, err := f.svc.SubmitCheckout(ctx, accountID, payload)
	if err != nil {
		return Outcome{Kind: OutcomeSubmissionFailed, Message: backend.ErrorMessage(err)}
	}
	f.ledger.Clear()
	return Outcome{Kind: OutcomeCompleted, PurchaseID: purchaseID}
}
