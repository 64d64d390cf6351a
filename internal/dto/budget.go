package dto

type NewBudgetRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type BudgetResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}
