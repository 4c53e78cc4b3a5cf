package services

import (
	"context"

	"github.com/gatherly/backend/internal/events"
	"github.com/gatherly/backend/internal/metrics"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/money"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementStore is the durable settlement table. Write operations are
// atomic single statements; absence is reported as (nil, nil), never as an
// error, and every call observes the latest committed state.
type SettlementStore interface {
	// ConfirmPayment upserts by the (eventID, payerID, receiverID, amount)
	// natural key, leaving the row payer-confirmed either way.
	ConfirmPayment(ctx context.Context, eventID, payerID, receiverID uuid.UUID, amount string) (*models.Settlement, error)
	// ConfirmReceipt atomically checks the guard (receiver matches, payer
	// confirmed, receiver not yet confirmed) and flips the receiver
	// confirmation. (nil, nil) means no row matched the guard.
	ConfirmReceipt(ctx context.Context, id, receiverID uuid.UUID) (*models.Settlement, error)
	GetByIDForReceiver(ctx context.Context, id, receiverID uuid.UUID) (*models.Settlement, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.SettlementWithUsers, error)
	ListByUser(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID) ([]models.SettlementWithUsers, error)
}

// AuditLogger records who did what to which entity.
type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

// SettlementService is the reconciliation engine: stateless, one store round
// trip per transition, no state held between calls.
type SettlementService struct {
	store     SettlementStore
	audit     AuditLogger
	publisher events.Publisher
	log       *zap.Logger
}

func NewSettlementService(store SettlementStore, audit AuditLogger, publisher events.Publisher, log *zap.Logger) *SettlementService {
	return &SettlementService{store: store, audit: audit, publisher: publisher, log: log}
}

// ConfirmPayment records the payer's assertion that they paid receiverID the
// given amount within the event. The first call creates the settlement
// directly in payer-confirmed state; repeated calls for the same natural key
// are no-op re-assertions returning the current record.
func (s *SettlementService) ConfirmPayment(ctx context.Context, eventID, payerID, receiverID uuid.UUID, amount string) (*models.Settlement, error) {
	const op = "confirm_payment"

	if eventID == uuid.Nil {
		return nil, s.reject(op, validationError("event_id is required"))
	}
	if payerID == uuid.Nil {
		return nil, s.reject(op, validationError("payer_id is required"))
	}
	if receiverID == uuid.Nil {
		return nil, s.reject(op, validationError("receiver_id is required"))
	}
	if payerID == receiverID {
		return nil, s.reject(op, validationError("payer and receiver must differ"))
	}
	normalized, err := money.Normalize(amount)
	if err != nil {
		return nil, s.reject(op, validationError("amount must be a positive decimal with at most two fractional digits"))
	}

	settlement, err := s.store.ConfirmPayment(ctx, eventID, payerID, receiverID, normalized)
	if err != nil {
		s.log.Error("confirm payment failed", zap.Error(err), zap.String("event_id", eventID.String()))
		return nil, s.reject(op, storageError(err))
	}

	metrics.SettlementTransitions.WithLabelValues(op, "ok").Inc()
	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &payerID,
		ActorType:   "user",
		Action:      "settlement_payment_confirmed",
		EntityType:  "settlement",
		EntityID:    &settlement.ID,
		Meta:        map[string]any{"amount": settlement.Amount, "status": settlement.Status()},
	})
	s.publishStatus(ctx, settlement)

	return settlement, nil
}

// ConfirmReceipt records the receiver's confirmation that the payment
// arrived. Only the settlement's receiver may confirm, and only after the
// payer has; a repeat call on a fully settled record is a no-op success.
func (s *SettlementService) ConfirmReceipt(ctx context.Context, settlementID, userID uuid.UUID) (*models.Settlement, error) {
	const op = "confirm_receipt"

	if settlementID == uuid.Nil {
		return nil, s.reject(op, validationError("settlement_id is required"))
	}
	if userID == uuid.Nil {
		return nil, s.reject(op, validationError("user_id is required"))
	}

	settlement, err := s.store.ConfirmReceipt(ctx, settlementID, userID)
	if err != nil {
		s.log.Error("confirm receipt failed", zap.Error(err), zap.String("settlement_id", settlementID.String()))
		return nil, s.reject(op, storageError(err))
	}
	if settlement != nil {
		metrics.SettlementTransitions.WithLabelValues(op, "ok").Inc()
		_ = s.audit.Log(ctx, models.AuditLog{
			ActorUserID: &userID,
			ActorType:   "user",
			Action:      "settlement_receipt_confirmed",
			EntityType:  "settlement",
			EntityID:    &settlement.ID,
			Meta:        map[string]any{"amount": settlement.Amount, "status": settlement.Status()},
		})
		s.publishStatus(ctx, settlement)
		return settlement, nil
	}

	// The guarded update matched nothing; a scoped read tells us why.
	existing, err := s.store.GetByIDForReceiver(ctx, settlementID, userID)
	if err != nil {
		return nil, s.reject(op, storageError(err))
	}
	if existing == nil {
		// Absent or the caller is not the receiver; the two are not
		// distinguished on purpose.
		return nil, s.reject(op, notFoundOrUnauthorized("settlement"))
	}
	if !existing.PayerConfirmed {
		return nil, s.reject(op, preconditionFailed("payment must be confirmed by payer first"))
	}

	// Already fully settled: re-assertion by the rightful receiver.
	metrics.SettlementTransitions.WithLabelValues(op, "ok").Inc()
	return existing, nil
}

// EventSettlements returns the event's settlements, newest first, enriched
// with payer/receiver display identity.
func (s *SettlementService) EventSettlements(ctx context.Context, eventID uuid.UUID) ([]models.SettlementWithUsers, error) {
	if eventID == uuid.Nil {
		return nil, validationError("event_id is required")
	}
	settlements, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storageError(err)
	}
	return settlements, nil
}

// UserSettlements returns settlements where the user is payer or receiver,
// across all events or restricted to one, newest first.
func (s *SettlementService) UserSettlements(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID) ([]models.SettlementWithUsers, error) {
	if userID == uuid.Nil {
		return nil, validationError("user_id is required")
	}
	settlements, err := s.store.ListByUser(ctx, userID, eventID)
	if err != nil {
		return nil, storageError(err)
	}
	return settlements, nil
}

func (s *SettlementService) reject(op string, err *ServiceError) error {
	metrics.SettlementTransitions.WithLabelValues(op, err.Code).Inc()
	return err
}

func (s *SettlementService) publishStatus(ctx context.Context, settlement *models.Settlement) {
	_ = s.publisher.Publish(ctx, events.StreamGatherly, events.Event{
		Type: events.EventSettlementStatusChanged,
		Payload: map[string]any{
			"settlement_id": settlement.ID.String(),
			"event_id":      settlement.EventID.String(),
			"payer_id":      settlement.PayerID.String(),
			"receiver_id":   settlement.ReceiverID.String(),
			"amount":        settlement.Amount,
			"status":        settlement.Status(),
		},
	})
}
