package resource

import "fmt"

// Category classifies ledger movements for reporting
type Category string

const (
	// CategoryRepairCosts represents resources spent restoring hit points
	CategoryRepairCosts Category = "REPAIR_COSTS"

	// CategoryGrant represents stock handed out by a scenario or script
	CategoryGrant Category = "GRANT"

	// CategoryRefund represents stock returned to a player
	CategoryRefund Category = "REFUND"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{CategoryRepairCosts, CategoryGrant, CategoryRefund}
}

func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryRepairCosts, CategoryGrant, CategoryRefund:
		return true
	default:
		return false
	}
}

// IsExpense returns true if movements in this category debit the stock
func (c Category) IsExpense() bool {
	return c == CategoryRepairCosts
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
