package services

import (
	"context"
	"strings"

	"github.com/gatherly/backend/internal/events"
	"github.com/gatherly/backend/internal/metrics"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService struct {
	messageRepo *repositories.MessageRepo
	eventRepo   *repositories.EventRepo
	unfurler    *Unfurler
	publisher   events.Publisher
	log         *zap.Logger
}

func NewChatService(
	messageRepo *repositories.MessageRepo,
	eventRepo *repositories.EventRepo,
	unfurler *Unfurler,
	publisher events.Publisher,
	log *zap.Logger,
) *ChatService {
	return &ChatService{messageRepo: messageRepo, eventRepo: eventRepo, unfurler: unfurler, publisher: publisher, log: log}
}

// PostMessage persists a chat message and fans it out. The first URL in the
// body gets a best-effort link preview; unfurl failures never block the post.
func (s *ChatService) PostMessage(ctx context.Context, eventID, userID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, validationError("message body is required")
	}
	if err := s.requireMember(ctx, eventID, userID); err != nil {
		return nil, err
	}

	message := &models.Message{EventID: eventID, UserID: userID, Body: body}
	if url := FirstURL(body); url != "" && s.unfurler != nil {
		preview, err := s.unfurler.Unfurl(ctx, url)
		if err != nil {
			s.log.Debug("unfurl failed", zap.String("url", url), zap.Error(err))
		} else {
			message.Preview = preview
		}
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		s.log.Error("create message failed", zap.Error(err), zap.String("event_id", eventID.String()))
		return nil, storageError(err)
	}

	metrics.ChatMessages.Inc()
	_ = s.publisher.Publish(ctx, events.StreamGatherly, events.Event{
		Type: events.EventChatMessage,
		Payload: map[string]any{
			"message_id": message.ID.String(),
			"event_id":   eventID.String(),
			"user_id":    userID.String(),
			"body":       message.Body,
		},
	})

	return message, nil
}

func (s *ChatService) ListMessages(ctx context.Context, eventID, actorID uuid.UUID, limit, offset int) ([]models.MessageWithUser, error) {
	if err := s.requireMember(ctx, eventID, actorID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListByEvent(ctx, eventID, limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return messages, nil
}

func (s *ChatService) requireMember(ctx context.Context, eventID, userID uuid.UUID) error {
	if eventID == uuid.Nil {
		return validationError("event_id is required")
	}
	ok, err := s.eventRepo.IsMember(ctx, eventID, userID)
	if err != nil {
		return storageError(err)
	}
	if !ok {
		return notFoundOrUnauthorized("event")
	}
	return nil
}
