package application

import (
	"errors"
	"fmt"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
)

var (
	// ErrInvalidRequest signals the payload violated a domain invariant before
	// any side effect was performed.
	ErrInvalidRequest = errors.New("invalid export order request")
	// ErrDuplicateOrder signals the order number is already taken, whether by
	// the pre-check or by losing the storage-constraint race.
	ErrDuplicateOrder = errors.New("order number already in use")
	// ErrStockVerification is the caller-visible class for every check-phase
	// rejection: negative availability, upstream timeout, and upstream failure
	// all land here. Internal logs keep the three apart.
	ErrStockVerification = errors.New("stock verification failed")
	// ErrStockUnavailable marks the negative-availability case inside the
	// ErrStockVerification class.
	ErrStockUnavailable = errors.New("insufficient stock")
	// ErrPersistenceFailure signals the local store failed; nothing external
	// changed, so no compensation is needed.
	ErrPersistenceFailure = errors.New("export order could not be persisted")
	// ErrCompensatedFailure signals the decrement phase failed and the local
	// write was rolled back cleanly. Safe for the caller to retry.
	ErrCompensatedFailure = errors.New("export order rolled back after stock adjustment failure")
	// ErrInconsistentState signals the decrement phase failed and the
	// compensating delete failed too: the order persists without its stock
	// being fully decremented. Requires manual reconciliation, never retried.
	ErrInconsistentState = errors.New("export order requires manual reconciliation")
)

// StockShortageError reports which product could not satisfy the request.
type StockShortageError struct {
	ProductID   string
	ProductName string
	Requested   int32
	Available   int32
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (%s): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// Unwrap ties the shortage to both the caller-visible verification class and
// the specific unavailability variant.
func (e *StockShortageError) Unwrap() []error {
	return []error{ErrStockVerification, ErrStockUnavailable}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrderNumber) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidModality) ||
		errors.Is(err, domain.ErrInvalidSalePlace) ||
		errors.Is(err, domain.ErrInvalidDeliveryModality) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrEmptyWarehouseID) ||
		errors.Is(err, domain.ErrEmptyProductName) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPriceUnit) ||
		errors.Is(err, domain.ErrEmptyCurrency) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return err
}
