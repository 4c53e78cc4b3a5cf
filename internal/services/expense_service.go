package services

import (
	"context"
	"strings"

	"github.com/gatherly/backend/internal/balance"
	"github.com/gatherly/backend/internal/events"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/money"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExpenseService struct {
	expenseRepo    *repositories.ExpenseRepo
	eventRepo      *repositories.EventRepo
	settlementRepo *repositories.SettlementRepo
	audit          AuditLogger
	publisher      events.Publisher
	log            *zap.Logger
}

func NewExpenseService(
	expenseRepo *repositories.ExpenseRepo,
	eventRepo *repositories.EventRepo,
	settlementRepo *repositories.SettlementRepo,
	audit AuditLogger,
	publisher events.Publisher,
	log *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:    expenseRepo,
		eventRepo:      eventRepo,
		settlementRepo: settlementRepo,
		audit:          audit,
		publisher:      publisher,
		log:            log,
	}
}

// MemberBalanceView is one member's aggregate position with display amounts.
type MemberBalanceView struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Paid   string    `json:"paid"`
	Owed   string    `json:"owed"`
	Net    string    `json:"net"`
}

// SuggestedTransfer is one simplified debt edge.
type SuggestedTransfer struct {
	FromUserID uuid.UUID `json:"from_user_id"`
	FromName   string    `json:"from_name"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	ToName     string    `json:"to_name"`
	Amount     string    `json:"amount"`
}

// AddExpense records a cost fronted by paidBy, split evenly across the given
// participants (every event member when none are given).
func (s *ExpenseService) AddExpense(ctx context.Context, eventID, paidBy uuid.UUID, description, amount string, participantIDs []uuid.UUID) (*models.Expense, error) {
	if strings.TrimSpace(description) == "" {
		return nil, validationError("description is required")
	}
	totalCents, err := money.ParseCents(amount)
	if err != nil {
		return nil, validationError("amount must be a positive decimal with at most two fractional digits")
	}

	if err := s.requireMember(ctx, eventID, paidBy); err != nil {
		return nil, err
	}

	if len(participantIDs) == 0 {
		members, err := s.eventRepo.ListMembers(ctx, eventID)
		if err != nil {
			return nil, storageError(err)
		}
		for _, m := range members {
			participantIDs = append(participantIDs, m.UserID)
		}
	}
	if len(participantIDs) == 0 {
		return nil, validationError("expense needs at least one participant")
	}

	shareCents := balance.SplitEven(totalCents, len(participantIDs))
	shares := make([]models.ExpenseShare, len(participantIDs))
	for i, userID := range participantIDs {
		shares[i] = models.ExpenseShare{UserID: userID, Amount: money.FormatCents(shareCents[i])}
	}

	expense := &models.Expense{
		EventID:     eventID,
		PaidBy:      paidBy,
		Description: strings.TrimSpace(description),
		Amount:      money.FormatCents(totalCents),
	}
	if err := s.expenseRepo.Create(ctx, expense, shares); err != nil {
		s.log.Error("create expense failed", zap.Error(err), zap.String("event_id", eventID.String()))
		return nil, storageError(err)
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &paidBy,
		ActorType:   "user",
		Action:      "expense_added",
		EntityType:  "expense",
		EntityID:    &expense.ID,
		Meta:        map[string]any{"amount": expense.Amount, "participants": len(shares)},
	})
	_ = s.publisher.Publish(ctx, events.StreamGatherly, events.Event{
		Type: events.EventExpenseAdded,
		Payload: map[string]any{
			"expense_id": expense.ID.String(),
			"event_id":   eventID.String(),
			"paid_by":    paidBy.String(),
			"amount":     expense.Amount,
		},
	})

	return expense, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, eventID, actorID uuid.UUID) ([]models.ExpenseWithShares, error) {
	if err := s.requireMember(ctx, eventID, actorID); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storageError(err)
	}
	return expenses, nil
}

// EventBalances aggregates the event's expenses and fully settled settlements
// into member positions and suggested transfers.
func (s *ExpenseService) EventBalances(ctx context.Context, eventID, actorID uuid.UUID) ([]MemberBalanceView, []SuggestedTransfer, error) {
	if err := s.requireMember(ctx, eventID, actorID); err != nil {
		return nil, nil, err
	}

	expenses, err := s.expenseRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, storageError(err)
	}
	settled, err := s.settlementRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, storageError(err)
	}
	members, err := s.eventRepo.ListMembers(ctx, eventID)
	if err != nil {
		return nil, nil, storageError(err)
	}

	names := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.Name
	}

	balExpenses := make([]balance.Expense, 0, len(expenses))
	for _, e := range expenses {
		cents, err := money.ParseCents(e.Amount)
		if err != nil {
			return nil, nil, storageError(err)
		}
		shareCents := make(map[uuid.UUID]int64, len(e.Shares))
		for _, share := range e.Shares {
			c, err := money.ParseCents(share.Amount)
			if err != nil {
				return nil, nil, storageError(err)
			}
			shareCents[share.UserID] = c
		}
		balExpenses = append(balExpenses, balance.Expense{
			PaidBy:      e.PaidBy,
			AmountCents: cents,
			ShareCents:  shareCents,
		})
	}

	var balSettlements []balance.Settlement
	for _, st := range settled {
		// Only fully settled transfers offset debts; one-sided claims don't.
		if st.Status() != models.SettlementStatusFullySettled {
			continue
		}
		cents, err := money.ParseCents(st.Amount)
		if err != nil {
			return nil, nil, storageError(err)
		}
		balSettlements = append(balSettlements, balance.Settlement{
			PayerID:     st.PayerID,
			ReceiverID:  st.ReceiverID,
			AmountCents: cents,
		})
	}

	memberBalances, edges := balance.Compute(balExpenses, balSettlements)

	views := make([]MemberBalanceView, len(memberBalances))
	for i, b := range memberBalances {
		views[i] = MemberBalanceView{
			UserID: b.UserID,
			Name:   names[b.UserID],
			Paid:   money.FormatCents(b.PaidCents),
			Owed:   money.FormatCents(b.OwedCents),
			Net:    money.FormatCents(b.NetCents),
		}
	}
	transfers := make([]SuggestedTransfer, len(edges))
	for i, e := range edges {
		transfers[i] = SuggestedTransfer{
			FromUserID: e.FromUserID,
			FromName:   names[e.FromUserID],
			ToUserID:   e.ToUserID,
			ToName:     names[e.ToUserID],
			Amount:     money.FormatCents(e.AmountCents),
		}
	}
	return views, transfers, nil
}

func (s *ExpenseService) requireMember(ctx context.Context, eventID, userID uuid.UUID) error {
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
