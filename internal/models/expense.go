package models

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	PaidBy      uuid.UUID `json:"paid_by"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"` // numeric as string, two fractional digits
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseShare is one participant's slice of an expense, split at creation time.
type ExpenseShare struct {
	ExpenseID uuid.UUID `json:"expense_id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    string    `json:"amount"`
}

// ExpenseWithShares embeds Expense and carries its shares for read paths.
type ExpenseWithShares struct {
	Expense
	PayerName string         `json:"payer_name"`
	Shares    []ExpenseShare `json:"shares"`
}
