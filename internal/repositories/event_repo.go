package repositories

import (
	"context"

	"github.com/gatherly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Create(ctx context.Context, e *models.Event) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO events (title, description, location, starts_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, e.Title, e.Description, e.Location, e.StartsAt, e.CreatedBy).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var e models.Event
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, location, starts_at, created_by, created_at, updated_at
		FROM events WHERE id = $1
	`, id).Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByMember returns the events the user belongs to, newest first.
func (r *EventRepo) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.title, e.description, e.location, e.starts_at, e.created_by, e.created_at, e.updated_at
		FROM events e
		JOIN event_members m ON m.event_id = e.id
		WHERE m.user_id = $1
		ORDER BY e.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepo) AddMember(ctx context.Context, m *models.EventMember) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO event_members (event_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE SET role = event_members.role
		RETURNING joined_at
	`, m.EventID, m.UserID, m.Role).Scan(&m.JoinedAt)
}

// IsMember reports whether the user belongs to the event.
func (r *EventRepo) IsMember(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM event_members WHERE event_id = $1 AND user_id = $2)
	`, eventID, userID).Scan(&exists)
	return exists, err
}

func (r *EventRepo) ListMembers(ctx context.Context, eventID uuid.UUID) ([]models.EventMemberWithUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.event_id, m.user_id, m.role, m.joined_at, u.name, u.email, u.avatar_url
		FROM event_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.event_id = $1
		ORDER BY m.joined_at
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.EventMemberWithUser
	for rows.Next() {
		var m models.EventMemberWithUser
		if err := rows.Scan(&m.EventID, &m.UserID, &m.Role, &m.JoinedAt, &m.Name, &m.Email, &m.AvatarURL); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
