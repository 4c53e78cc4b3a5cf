package repositories

import (
	"context"
	"errors"

	"github.com/gatherly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettlementRepo struct {
	pool *pgxpool.Pool
}

func NewSettlementRepo(pool *pgxpool.Pool) *SettlementRepo {
	return &SettlementRepo{pool: pool}
}

const settlementColumns = `id, event_id, payer_id, receiver_id, amount::text,
	       payer_confirmed, receiver_confirmed, payer_confirmed_at, receiver_confirmed_at,
	       created_at, updated_at`

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	var s models.Settlement
	err := row.Scan(&s.ID, &s.EventID, &s.PayerID, &s.ReceiverID, &s.Amount,
		&s.PayerConfirmed, &s.ReceiverConfirmed, &s.PayerConfirmedAt, &s.ReceiverConfirmedAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ConfirmPayment creates the settlement in payer-confirmed state, or flips the
// existing row's payer confirmation. The unique constraint on
// (event_id, payer_id, receiver_id, amount) makes concurrent calls for the same
// tuple converge on one row; payer_confirmed_at keeps its first value.
func (r *SettlementRepo) ConfirmPayment(ctx context.Context, eventID, payerID, receiverID uuid.UUID, amount string) (*models.Settlement, error) {
	return scanSettlement(r.pool.QueryRow(ctx, `
		INSERT INTO settlements (event_id, payer_id, receiver_id, amount, payer_confirmed, payer_confirmed_at)
		VALUES ($1, $2, $3, $4, true, now())
		ON CONFLICT (event_id, payer_id, receiver_id, amount) DO UPDATE SET
			payer_confirmed = true,
			payer_confirmed_at = COALESCE(settlements.payer_confirmed_at, now()),
			updated_at = now()
		RETURNING `+settlementColumns,
		eventID, payerID, receiverID, amount))
}

// ConfirmReceipt flips the receiver confirmation iff the row belongs to
// receiverID, the payer already confirmed, and the receiver has not. Guard and
// write are one statement, so a concurrent reader cannot slip between them.
// Returns (nil, nil) when no row matched; the caller diagnoses why.
func (r *SettlementRepo) ConfirmReceipt(ctx context.Context, id, receiverID uuid.UUID) (*models.Settlement, error) {
	s, err := scanSettlement(r.pool.QueryRow(ctx, `
		UPDATE settlements SET receiver_confirmed = true, receiver_confirmed_at = now(), updated_at = now()
		WHERE id = $1 AND receiver_id = $2 AND payer_confirmed AND NOT receiver_confirmed
		RETURNING `+settlementColumns,
		id, receiverID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// GetByIDForReceiver returns the settlement only if receiverID matches, and
// (nil, nil) when absent. Absence is not an error at the store level.
func (r *SettlementRepo) GetByIDForReceiver(ctx context.Context, id, receiverID uuid.UUID) (*models.Settlement, error) {
	s, err := scanSettlement(r.pool.QueryRow(ctx, `
		SELECT `+settlementColumns+`
		FROM settlements WHERE id = $1 AND receiver_id = $2`,
		id, receiverID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

const settlementWithUsersQuery = `
	SELECT s.id, s.event_id, s.payer_id, s.receiver_id, s.amount::text,
	       s.payer_confirmed, s.receiver_confirmed, s.payer_confirmed_at, s.receiver_confirmed_at,
	       s.created_at, s.updated_at,
	       p.name, p.avatar_url, r.name, r.avatar_url
	FROM settlements s
	JOIN users p ON p.id = s.payer_id
	JOIN users r ON r.id = s.receiver_id
`

func (r *SettlementRepo) scanSettlementsWithUsers(rows pgx.Rows) ([]models.SettlementWithUsers, error) {
	defer rows.Close()

	var settlements []models.SettlementWithUsers
	for rows.Next() {
		var s models.SettlementWithUsers
		if err := rows.Scan(&s.ID, &s.EventID, &s.PayerID, &s.ReceiverID, &s.Amount,
			&s.PayerConfirmed, &s.ReceiverConfirmed, &s.PayerConfirmedAt, &s.ReceiverConfirmedAt,
			&s.CreatedAt, &s.UpdatedAt,
			&s.PayerName, &s.PayerAvatar, &s.ReceiverName, &s.ReceiverAvatar); err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

func (r *SettlementRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.SettlementWithUsers, error) {
	rows, err := r.pool.Query(ctx, settlementWithUsersQuery+`
		WHERE s.event_id = $1
		ORDER BY s.created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	return r.scanSettlementsWithUsers(rows)
}

// ListByUser returns settlements where the user is payer or receiver,
// optionally restricted to one event.
func (r *SettlementRepo) ListByUser(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID) ([]models.SettlementWithUsers, error) {
	query := settlementWithUsersQuery + ` WHERE (s.payer_id = $1 OR s.receiver_id = $1)`
	args := []any{userID}
	if eventID != nil {
		query += ` AND s.event_id = $2`
		args = append(args, *eventID)
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.scanSettlementsWithUsers(rows)
}
