package ordering

import "github.com/lotledger/backend/internal/domain/shared"

var (
	// ErrOrderNotFound indicates the requested order does not exist
	ErrOrderNotFound = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	// ErrOrderNotPending indicates a confirmation was attempted on a non-pending order
	ErrOrderNotPending = shared.NewDomainError("ORDER_NOT_PENDING", "Only pending orders can be confirmed")
	// ErrOrderNotCancellable indicates a cancellation was attempted on a cancelled order
	ErrOrderNotCancellable = shared.NewDomainError("ORDER_NOT_CANCELLABLE", "Order cannot be cancelled in its current state")
)
