package services

import (
	"context"
	"strings"
	"time"

	"github.com/gatherly/backend/internal/events"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService struct {
	eventRepo *repositories.EventRepo
	userRepo  *repositories.UserRepo
	audit     AuditLogger
	publisher events.Publisher
	log       *zap.Logger
}

func NewEventService(
	eventRepo *repositories.EventRepo,
	userRepo *repositories.UserRepo,
	audit AuditLogger,
	publisher events.Publisher,
	log *zap.Logger,
) *EventService {
	return &EventService{eventRepo: eventRepo, userRepo: userRepo, audit: audit, publisher: publisher, log: log}
}

// CreateEvent creates the event and registers the creator as organizer.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uuid.UUID, title string, description, location *string, startsAt *time.Time) (*models.Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationError("title is required")
	}

	event := &models.Event{
		Title:       strings.TrimSpace(title),
		Description: description,
		Location:    location,
		StartsAt:    startsAt,
		CreatedBy:   creatorID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.log.Error("create event failed", zap.Error(err))
		return nil, storageError(err)
	}

	organizer := &models.EventMember{EventID: event.ID, UserID: creatorID, Role: models.MemberRoleOrganizer}
	if err := s.eventRepo.AddMember(ctx, organizer); err != nil {
		return nil, storageError(err)
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &creatorID,
		ActorType:   "user",
		Action:      "event_created",
		EntityType:  "event",
		EntityID:    &event.ID,
		Meta:        map[string]any{"title": event.Title},
	})

	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID, actorID uuid.UUID) (*models.Event, error) {
	if err := s.requireMember(ctx, eventID, actorID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, storageError(err)
	}
	return event, nil
}

func (s *EventService) ListMyEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	list, err := s.eventRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

// InviteMember adds the user with the given email as a participant. Any
// member may invite; the invitee must already have an account.
func (s *EventService) InviteMember(ctx context.Context, eventID, actorID uuid.UUID, email string) (*models.EventMember, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, validationError("email is required")
	}
	if err := s.requireMember(ctx, eventID, actorID); err != nil {
		return nil, err
	}

	invitee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageError(err)
	}
	if invitee == nil {
		return nil, notFoundOrUnauthorized("user")
	}

	member := &models.EventMember{EventID: eventID, UserID: invitee.ID, Role: models.MemberRoleParticipant}
	if err := s.eventRepo.AddMember(ctx, member); err != nil {
		return nil, storageError(err)
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   "user",
		Action:      "member_invited",
		EntityType:  "event",
		EntityID:    &eventID,
		Meta:        map[string]any{"invitee_id": invitee.ID.String()},
	})
	_ = s.publisher.Publish(ctx, events.StreamGatherly, events.Event{
		Type: events.EventMemberInvited,
		Payload: map[string]any{
			"event_id": eventID.String(),
			"user_id":  invitee.ID.String(),
		},
	})

	return member, nil
}

func (s *EventService) ListMembers(ctx context.Context, eventID, actorID uuid.UUID) ([]models.EventMemberWithUser, error) {
	if err := s.requireMember(ctx, eventID, actorID); err != nil {
		return nil, err
	}
	members, err := s.eventRepo.ListMembers(ctx, eventID)
	if err != nil {
		return nil, storageError(err)
	}
	return members, nil
}

func (s *EventService) requireMember(ctx context.Context, eventID, userID uuid.UUID) error {
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
