package dto

type ListTransactionsQuery struct {
	CategoryIDs []int64
	BudgetIDs   []int64
	From        string
	To          string
	Count       int
	Page        int
	SortBy      string
	SortOrder   string
}

type NewTransactionRequest struct {
	BudgetID    *int64  `json:"budgetId"`
	CategoryID  *int64  `json:"categoryId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	Amount      int64   `json:"amount"`
	Expense     bool    `json:"expense"`
}

type UpdateTransactionRequest struct {
	Title       Optional[string] `json:"title" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
	Date        Optional[string] `json:"date" swaggertype:"string"`
	Amount      Optional[int64]  `json:"amount" swaggertype:"integer"`
	Expense     Optional[bool]   `json:"expense" swaggertype:"boolean"`
	BudgetID    Optional[int64]  `json:"budgetId" swaggertype:"integer"`
	CategoryID  Optional[int64]  `json:"categoryId" swaggertype:"integer"`
}

type CategoryRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type TransactionResponse struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Date        string       `json:"date"`
	Amount      int64        `json:"amount"`
	Expense     bool         `json:"expense"`
	Category    *CategoryRef `json:"category,omitempty"`
	BudgetID    int64        `json:"budgetId"`
	CreatedBy   UserRef      `json:"createdBy"`
}
