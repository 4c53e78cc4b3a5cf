package models

import (
	"time"

	"github.com/google/uuid"
)

// Settlement statuses, derived from the two confirmation flags.
const (
	SettlementStatusUnconfirmed    = "unconfirmed"
	SettlementStatusPayerConfirmed = "payer_confirmed"
	SettlementStatusFullySettled   = "fully_settled"
)

// Valid state transitions: from -> []to
var ValidSettlementTransitions = map[string][]string{
	SettlementStatusUnconfirmed:    {SettlementStatusPayerConfirmed},
	SettlementStatusPayerConfirmed: {SettlementStatusFullySettled},
	SettlementStatusFullySettled:   {},
}

func IsValidSettlementTransition(from, to string) bool {
	allowed, ok := ValidSettlementTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Settlement records one payer->receiver debt resolution within an event.
// The tuple (event_id, payer_id, receiver_id, amount) is unique; a repeated
// payment confirmation for the same tuple updates the existing row.
type Settlement struct {
	ID                  uuid.UUID  `json:"id"`
	EventID             uuid.UUID  `json:"event_id"`
	PayerID             uuid.UUID  `json:"payer_id"`
	ReceiverID          uuid.UUID  `json:"receiver_id"`
	Amount              string     `json:"amount"` // numeric as string, two fractional digits
	PayerConfirmed      bool       `json:"payer_confirmed"`
	ReceiverConfirmed   bool       `json:"receiver_confirmed"`
	PayerConfirmedAt    *time.Time `json:"payer_confirmed_at,omitempty"`
	ReceiverConfirmedAt *time.Time `json:"receiver_confirmed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Status derives the state-machine status from the confirmation flags.
func (s *Settlement) Status() string {
	switch {
	case s.PayerConfirmed && s.ReceiverConfirmed:
		return SettlementStatusFullySettled
	case s.PayerConfirmed:
		return SettlementStatusPayerConfirmed
	default:
		return SettlementStatusUnconfirmed
	}
}

// SettlementWithUsers embeds Settlement and adds payer/receiver display
// identity to avoid N+1 queries.
type SettlementWithUsers struct {
	Settlement
	PayerName      string  `json:"payer_name"`
	PayerAvatar    *string `json:"payer_avatar,omitempty"`
	ReceiverName   string  `json:"receiver_name"`
	ReceiverAvatar *string `json:"receiver_avatar,omitempty"`
}
