package repositories

import (
	"context"
	"encoding/json"

	"github.com/gatherly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.Message) error {
	var preview []byte
	if m.Preview != nil {
		preview, _ = json.Marshal(m.Preview)
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO messages (event_id, user_id, body, preview)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.EventID, m.UserID, m.Body, preview).Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepo) ListByEvent(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]models.MessageWithUser, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.event_id, m.user_id, m.body, m.preview, m.created_at, u.name, u.avatar_url
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.event_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`, eventID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.MessageWithUser
	for rows.Next() {
		var m models.MessageWithUser
		var preview []byte
		if err := rows.Scan(&m.ID, &m.EventID, &m.UserID, &m.Body, &preview, &m.CreatedAt, &m.SenderName, &m.SenderAvatar); err != nil {
			return nil, err
		}
		if len(preview) > 0 {
			_ = json.Unmarshal(preview, &m.Preview)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
