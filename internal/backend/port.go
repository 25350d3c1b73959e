// Package backend defines the external service boundary of the purchase
// tool and provides the in-memory simulator implementation used by the
// service. Catalog, account, role, and purchase persistence all live
// behind this boundary; the session layer treats it as a black box.
package backend

import (
	"context"
	"errors"

	"github.com/fairyhunter13/item-purchase-service/internal/model"
)

// Service is the logical backend consumed by ordering sessions. All
// operations are context-aware and may fail with a *ServiceError carrying
// a human-readable message.
type Service interface {
	FetchItems(ctx context.Context) ([]model.Item, error)
	FetchAccount(ctx context.Context, accountID string) (model.Account, error)
	FetchItemFamilies(ctx context.Context) ([]string, error)
	FetchPicklistValues(ctx context.Context) ([]model.PicklistEntry, error)
	IsManager(ctx context.Context, userID string) (bool, error)
	CreateItem(ctx context.Context, item model.Item) error
	SubmitCheckout(ctx context.Context, accountID string, lines []model.CheckoutLine) (string, error)
}

// ServiceError is a structured backend failure with a stable code and a
// message suitable for surfacing to the user.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// ErrorMessage extracts the user-facing message from a backend error,
// falling back to a generic string when the error carries no structured body.
func ErrorMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return "Unknown error"
}
