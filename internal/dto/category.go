package dto

type NewCategoryRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Amount      int64   `json:"amount"`
	BudgetID    *int64  `json:"budgetId"`
	Expense     *bool   `json:"expense"`
}

type CategoryResponse struct {
	ID          int64   `json:"id"`
	BudgetID    int64   `json:"budgetId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Amount      int64   `json:"amount"`
	Expense     bool    `json:"expense"`
	Archived    bool    `json:"archived"`
}
