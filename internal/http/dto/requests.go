package dto

import "time"

type RegisterRequest struct {
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Password  string  `json:"password"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
}

type InviteMemberRequest struct {
	Email string `json:"email"`
}

type AddExpenseRequest struct {
	Description    string   `json:"description"`
	Amount         string   `json:"amount"`
	ParticipantIDs []string `json:"participant_ids,omitempty"` // empty = all members
}

type PostMessageRequest struct {
	Text string `json:"text"`
}

type ConfirmPaymentRequest struct {
	EventID    string `json:"event_id"`
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
}
