package repositories

import (
	"context"

	"github.com/gatherly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpenseRepo struct {
	pool *pgxpool.Pool
}

func NewExpenseRepo(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

// Create inserts the expense and its shares in one transaction.
func (r *ExpenseRepo) Create(ctx context.Context, e *models.Expense, shares []models.ExpenseShare) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (event_id, paid_by, description, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.EventID, e.PaidBy, e.Description, e.Amount).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return err
	}

	for i := range shares {
		shares[i].ExpenseID = e.ID
		if _, err := tx.Exec(ctx, `
			INSERT INTO expense_shares (expense_id, user_id, amount)
			VALUES ($1, $2, $3)
		`, shares[i].ExpenseID, shares[i].UserID, shares[i].Amount); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ExpenseRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.ExpenseWithShares, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.event_id, e.paid_by, e.description, e.amount::text, e.created_at, u.name
		FROM expenses e
		JOIN users u ON u.id = e.paid_by
		WHERE e.event_id = $1
		ORDER BY e.created_at DESC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.ExpenseWithShares
	byID := map[uuid.UUID]int{}
	for rows.Next() {
		var e models.ExpenseWithShares
		if err := rows.Scan(&e.ID, &e.EventID, &e.PaidBy, &e.Description, &e.Amount, &e.CreatedAt, &e.PayerName); err != nil {
			return nil, err
		}
		byID[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	shareRows, err := r.pool.Query(ctx, `
		SELECT s.expense_id, s.user_id, s.amount::text
		FROM expense_shares s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.event_id = $1
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var s models.ExpenseShare
		if err := shareRows.Scan(&s.ExpenseID, &s.UserID, &s.Amount); err != nil {
			return nil, err
		}
		if i, ok := byID[s.ExpenseID]; ok {
			expenses[i].Shares = append(expenses[i].Shares, s)
		}
	}
	return expenses, shareRows.Err()
}
