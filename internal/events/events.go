package events

import "context"

// Event types
const (
	EventSettlementStatusChanged = "settlement_status_changed"
	EventChatMessage             = "chat_message"
	EventExpenseAdded            = "expense_added"
	EventMemberInvited           = "member_invited"
)

// Stream carrying all gatherly fan-out events.
const StreamGatherly = "events:gatherly"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
