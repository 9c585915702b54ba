package inventory

import (
	"github.com/google/uuid"

	"github.com/lotledger/backend/internal/domain/shared"
)

// ReferenceKind discriminates what caused a stock movement.
// It replaces a stringly-typed polymorphic (type, id) pair with an
// enum the compiler can check for exhaustiveness.
type ReferenceKind string

const (
	// ReferenceKindNone means the movement has no causing document (manual entry)
	ReferenceKindNone ReferenceKind = "NONE"
	// ReferenceKindOrderItem links a movement to a sales order line
	ReferenceKindOrderItem ReferenceKind = "ORDER_ITEM"
	// ReferenceKindLot links a movement to a stock lot (targeted adjustments)
	ReferenceKindLot ReferenceKind = "LOT"
	// ReferenceKindAllocation links a movement to a prior lot allocation (reversals)
	ReferenceKindAllocation ReferenceKind = "ALLOCATION"
	// ReferenceKindReceiptLine links a movement to a goods-receipt line
	ReferenceKindReceiptLine ReferenceKind = "RECEIPT_LINE"
)

// String returns the string representation of ReferenceKind
func (k ReferenceKind) String() string {
	return string(k)
}

// IsValid returns true if the reference kind is known
func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceKindNone,
		ReferenceKindOrderItem,
		ReferenceKindLot,
		ReferenceKindAllocation,
		ReferenceKindReceiptLine:
		return true
	}
	return false
}

// Reference identifies the document or entity that caused a stock movement.
// A zero Reference (kind NONE, nil id) means "no causing document".
type Reference struct {
	Kind ReferenceKind `gorm:"column:kind;type:varchar(20);not null;default:'NONE'"`
	ID   *uuid.UUID    `gorm:"column:id;type:uuid"`
}

// NoReference returns the empty reference
func NoReference() Reference {
	return Reference{Kind: ReferenceKindNone}
}

// OrderItemReference builds a reference to a sales order line
func OrderItemReference(orderItemID uuid.UUID) Reference {
	return Reference{Kind: ReferenceKindOrderItem, ID: &orderItemID}
}

// LotReference builds a reference to a stock lot
func LotReference(lotID uuid.UUID) Reference {
	return Reference{Kind: ReferenceKindLot, ID: &lotID}
}

// AllocationReference builds a reference to a stock lot allocation
func AllocationReference(allocationID uuid.UUID) Reference {
	return Reference{Kind: ReferenceKindAllocation, ID: &allocationID}
}

// ReceiptLineReference builds a reference to a goods-receipt line
func ReceiptLineReference(lineID uuid.UUID) Reference {
	return Reference{Kind: ReferenceKindReceiptLine, ID: &lineID}
}

// IsNone returns true if the reference points at nothing
func (r Reference) IsNone() bool {
	return r.Kind == ReferenceKindNone || r.Kind == "" || r.ID == nil
}

// IsOrderItem returns true if the reference points at a sales order line
func (r Reference) IsOrderItem() bool {
	return r.Kind == ReferenceKindOrderItem && r.ID != nil
}

// Validate checks the kind/id combination is coherent
func (r Reference) Validate() error {
	if !r.Kind.IsValid() && r.Kind != "" {
		return shared.NewDomainError("INVALID_REFERENCE", "Unknown reference kind")
	}
	if r.Kind != ReferenceKindNone && r.Kind != "" && r.ID == nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference kind requires an id")
	}
	return nil
}
