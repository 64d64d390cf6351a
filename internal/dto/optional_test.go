package dto

import (
	"encoding/json"
	"testing"
)

func TestUpdateTransactionRequestPresence(t *testing.T) {
	body := `{"title":"Rent","amount":-1200,"budgetId":2,"categoryId":null,"expense":false}`

	var req UpdateTransactionRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if v, ok := req.Title.Get(); !ok || v != "Rent" {
		t.Errorf("title = %q, %v", v, ok)
	}
	if v, ok := req.Amount.Get(); !ok || v != -1200 {
		t.Errorf("amount = %d, %v", v, ok)
	}
	if v, ok := req.BudgetID.Get(); !ok || v != 2 {
		t.Errorf("budgetId = %d, %v", v, ok)
	}
	if v, ok := req.Expense.Get(); !ok || v {
		t.Errorf("expense = %v, %v; false must still count as present", v, ok)
	}
	if req.CategoryID.Set {
		t.Error("null categoryId should be absent")
	}
	if req.Description.Set || req.Date.Set {
		t.Error("omitted fields should be absent")
	}
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var req UpdateTransactionRequest
	if err := json.Unmarshal([]byte(`{"amount":"lots"}`), &req); err == nil {
		t.Fatal("expected error for string amount")
	}
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int]    `json:"a"`
		B Optional[string] `json:"b"`
	}{A: Some(3)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":3,"b":null}` {
		t.Errorf("got %s", out)
	}
}
