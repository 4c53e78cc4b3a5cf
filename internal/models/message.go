package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID    `json:"id"`
	EventID   uuid.UUID    `json:"event_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Body      string       `json:"body"`
	Preview   *LinkPreview `json:"preview,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// LinkPreview is the unfurled metadata of the first URL in a message body.
type LinkPreview struct {
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// MessageWithUser embeds Message and adds sender display identity.
type MessageWithUser struct {
	Message
	SenderName   string  `json:"sender_name"`
	SenderAvatar *string `json:"sender_avatar,omitempty"`
}
