package models

import (
	"time"

	"github.com/google/uuid"
)

// Member roles
const (
	MemberRoleOrganizer   = "organizer"
	MemberRoleParticipant = "participant"
)

type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type EventMember struct {
	EventID  uuid.UUID `json:"event_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"` // organizer / participant
	JoinedAt time.Time `json:"joined_at"`
}

// EventMemberWithUser embeds EventMember and adds display identity.
type EventMemberWithUser struct {
	EventMember
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
