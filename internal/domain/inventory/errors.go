package inventory

import "github.com/lotledger/backend/internal/domain/shared"

// Domain errors returned by the stock-lot ledger.
// The HTTP layer maps these to response codes; the core never sees HTTP.
var (
	// ErrInvalidQuantity indicates a zero or negative quantity where a positive one is required
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	// ErrInvalidUnitCost indicates a negative unit cost
	ErrInvalidUnitCost = shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	// ErrInvalidTransactionType indicates an unrecognized or misapplied transaction type
	ErrInvalidTransactionType = shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	// ErrVariantNotFound indicates the referenced product variant does not exist
	ErrVariantNotFound = shared.NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
	// ErrLotNotFound indicates the referenced stock lot does not exist
	ErrLotNotFound = shared.NewDomainError("LOT_NOT_FOUND", "Stock lot not found")
	// ErrInsufficientStock indicates the variant's total remaining stock cannot cover a deduction
	ErrInsufficientStock = shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	// ErrInsufficientLotStock indicates a targeted adjustment exceeds one lot's remaining quantity
	ErrInsufficientLotStock = shared.NewDomainError("INSUFFICIENT_LOT_STOCK", "Insufficient stock remaining in lot")
	// ErrInternalConsistency indicates the ledger and the pre-checked totals disagree.
	// The enclosing transaction must roll back wholesale.
	ErrInternalConsistency = shared.NewDomainError("INTERNAL_CONSISTENCY", "Stock ledger is internally inconsistent")
)
