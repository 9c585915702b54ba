package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/lotledger/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyFilter applies pagination and whitelisted ordering to a list query.
// When the filter names no order column the defaultOrder clause is used verbatim.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, allowedFields, "")
		if field != "" {
			query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
			return query
		}
	}
	if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}
	return query
}

// VariantSortFields contains allowed sort fields for product variants
var VariantSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"sku":          true,
	"name":         true,
	"cached_stock": true,
}

// StockLotSortFields contains allowed sort fields for stock lots
var StockLotSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"purchase_date": true,
	"quantity_in":   true,
	"quantity_out":  true,
	"unit_cost":     true,
}

// InventoryTransactionSortFields contains allowed sort fields for inventory transactions
var InventoryTransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"occurred_at":      true,
	"transaction_type": true,
	"quantity":         true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"status":     true,
}

// ReceiptSortFields contains allowed sort fields for goods receipts
var ReceiptSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"status":     true,
}
