package core

import "slices"

// categories is the fixed choice table offered for each transaction type.
var categories = map[Type][]string{
	Income:  {"Salary", "Freelance", "Investment", "Gift"},
	Expense: {"Food", "Transport", "Entertainment", "Housing", "Health", "Clothing"},
}

// Categories returns the selectable categories for t, or nil for an unknown type.
func Categories(t Type) []string {
	return slices.Clone(categories[t])
}

// IsCategory reports whether name is one of the categories offered for t.
func IsCategory(t Type, name string) bool {
	return slices.Contains(categories[t], name)
}
