package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotDeduction is the slice of a deduction funded by a single lot
type LotDeduction struct {
	LotID          uuid.UUID
	Quantity       int64           // units taken from this lot
	UnitCost       decimal.Decimal // the lot's cost basis
	Cost           decimal.Decimal // Quantity * UnitCost
	RemainingAfter int64           // lot remaining after this deduction
	FullyConsumed  bool
}

// DeductionPlan is the complete result of walking the FIFO order for one
// requested quantity. The plan is computed against in-memory lots and only
// applied to the ledger once it is known to be fully fulfillable.
type DeductionPlan struct {
	Deductions       []LotDeduction
	TotalQuantity    int64           // units the plan covers
	TotalCost        decimal.Decimal // weighted total cost of the covered units
	WeightedUnitCost decimal.Decimal // TotalCost / TotalQuantity, rounded to 4 places
	Unfulfilled      int64           // units the available lots could not cover
}

// FullyFulfilled returns true if every requested unit is covered by a lot
func (p *DeductionPlan) FullyFulfilled() bool {
	return p.Unfulfilled == 0
}

// SortLotsFIFO orders lots oldest-first by purchase date, tie-broken by
// creation time and finally by id so the order is a deterministic total
// order per variant across repeated calls.
func SortLotsFIFO(lots []StockLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].PurchaseDate.Equal(lots[j].PurchaseDate) {
			return lots[i].PurchaseDate.Before(lots[j].PurchaseDate)
		}
		if !lots[i].CreatedAt.Equal(lots[j].CreatedAt) {
			return lots[i].CreatedAt.Before(lots[j].CreatedAt)
		}
		return lots[i].ID.String() < lots[j].ID.String()
	})
}

// TotalRemaining sums the remaining quantity across lots
func TotalRemaining(lots []StockLot) int64 {
	var total int64
	for i := range lots {
		total += lots[i].Remaining()
	}
	return total
}

// PlanFIFODeduction walks lots oldest-first and plans how the requested
// quantity would be consumed. Lots with nothing remaining are skipped.
// The input slice is not mutated; callers apply the plan to the real lots
// afterwards. A plan that cannot be fully fulfilled is still returned with
// Unfulfilled > 0 so the caller can distinguish "not enough stock" from
// "walk fell short after a passed pre-check".
func PlanFIFODeduction(requested int64, lots []StockLot) (*DeductionPlan, error) {
	if requested <= 0 {
		return nil, ErrInvalidQuantity
	}

	ordered := make([]StockLot, len(lots))
	copy(ordered, lots)
	SortLotsFIFO(ordered)

	plan := &DeductionPlan{
		Deductions: make([]LotDeduction, 0, len(ordered)),
		TotalCost:  decimal.Zero,
	}

	still := requested
	for i := range ordered {
		if still == 0 {
			break
		}
		lot := &ordered[i]
		remaining := lot.Remaining()
		if remaining <= 0 {
			continue
		}

		take := still
		if remaining < take {
			take = remaining
		}
		cost := decimal.NewFromInt(take).Mul(lot.UnitCost)

		plan.Deductions = append(plan.Deductions, LotDeduction{
			LotID:          lot.ID,
			Quantity:       take,
			UnitCost:       lot.UnitCost,
			Cost:           cost,
			RemainingAfter: remaining - take,
			FullyConsumed:  remaining == take,
		})
		plan.TotalQuantity += take
		plan.TotalCost = plan.TotalCost.Add(cost)
		still -= take
	}

	plan.Unfulfilled = still
	if plan.TotalQuantity > 0 {
		plan.WeightedUnitCost = plan.TotalCost.Div(decimal.NewFromInt(plan.TotalQuantity)).Round(4)
	}
	return plan, nil
}

// ApplyDeductionPlan consumes the planned quantities from the given lots.
// Every planned lot must be present and hold enough remaining stock;
// anything else means the plan was computed against different ledger state
// and the operation must abort.
func ApplyDeductionPlan(plan *DeductionPlan, lots []*StockLot) error {
	if plan == nil {
		return ErrInternalConsistency
	}
	byID := make(map[uuid.UUID]*StockLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}
	for _, d := range plan.Deductions {
		lot, ok := byID[d.LotID]
		if !ok {
			return ErrInternalConsistency
		}
		if err := lot.Consume(d.Quantity); err != nil {
			return ErrInternalConsistency
		}
	}
	return nil
}
