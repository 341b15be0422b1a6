package model

// DefaultCategories is the starter set offered on first run.
func DefaultCategories() []Category {
	return []Category{
		{ID: "default-salary", Name: "Salary", Status: CategoryTypeIncome, Color: "#4ECDC4", Icon: "cash"},
		{ID: "default-gifts", Name: "Gifts", Status: CategoryTypeIncome, Color: "#95E1D3", Icon: "gift"},
		{ID: "default-food", Name: "Food", Status: CategoryTypeExpense, Color: "#FF6B6B", Icon: "fast-food"},
		{ID: "default-transport", Name: "Transport", Status: CategoryTypeExpense, Color: "#FFE66D", Icon: "car"},
		{ID: "default-housing", Name: "Housing", Status: CategoryTypeExpense, Color: "#6C5CE7", Icon: "home"},
		{ID: "default-entertainment", Name: "Entertainment", Status: CategoryTypeExpense, Color: "#FD79A8", Icon: "game-controller"},
	}
}
