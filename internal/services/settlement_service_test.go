package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gatherly/backend/internal/events"
	"github.com/gatherly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSettlementStore mirrors the SQL store's semantics in memory: the
// natural-key upsert, the guarded receipt update, and newest-first listings.
type fakeSettlementStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*models.Settlement
	names map[uuid.UUID]string
	clock time.Time
}

func newFakeStore() *fakeSettlementStore {
	return &fakeSettlementStore{
		rows:  make(map[uuid.UUID]*models.Settlement),
		names: make(map[uuid.UUID]string),
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeSettlementStore) now() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeSettlementStore) ConfirmPayment(_ context.Context, eventID, payerID, receiverID uuid.UUID, amount string) (*models.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.EventID == eventID && row.PayerID == payerID && row.ReceiverID == receiverID && row.Amount == amount {
			now := f.now()
			row.PayerConfirmed = true
			if row.PayerConfirmedAt == nil {
				row.PayerConfirmedAt = &now
			}
			row.UpdatedAt = now
			copied := *row
			return &copied, nil
		}
	}

	now := f.now()
	row := &models.Settlement{
		ID:               uuid.New(),
		EventID:          eventID,
		PayerID:          payerID,
		ReceiverID:       receiverID,
		Amount:           amount,
		PayerConfirmed:   true,
		PayerConfirmedAt: &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.rows[row.ID] = row
	copied := *row
	return &copied, nil
}

func (f *fakeSettlementStore) ConfirmReceipt(_ context.Context, id, receiverID uuid.UUID) (*models.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row := f.rows[id]
	if row == nil || row.ReceiverID != receiverID || !row.PayerConfirmed || row.ReceiverConfirmed {
		return nil, nil
	}
	now := f.now()
	row.ReceiverConfirmed = true
	row.ReceiverConfirmedAt = &now
	row.UpdatedAt = now
	copied := *row
	return &copied, nil
}

func (f *fakeSettlementStore) GetByIDForReceiver(_ context.Context, id, receiverID uuid.UUID) (*models.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row := f.rows[id]
	if row == nil || row.ReceiverID != receiverID {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeSettlementStore) enrich(row models.Settlement) models.SettlementWithUsers {
	return models.SettlementWithUsers{
		Settlement:   row,
		PayerName:    f.names[row.PayerID],
		ReceiverName: f.names[row.ReceiverID],
	}
}

func (f *fakeSettlementStore) ListByEvent(_ context.Context, eventID uuid.UUID) ([]models.SettlementWithUsers, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.SettlementWithUsers
	for _, row := range f.rows {
		if row.EventID == eventID {
			result = append(result, f.enrich(*row))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeSettlementStore) ListByUser(_ context.Context, userID uuid.UUID, eventID *uuid.UUID) ([]models.SettlementWithUsers, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.SettlementWithUsers
	for _, row := range f.rows {
		if row.PayerID != userID && row.ReceiverID != userID {
			continue
		}
		if eventID != nil && row.EventID != *eventID {
			continue
		}
		result = append(result, f.enrich(*row))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// seedUnconfirmed plants a row that predates the combined create+confirm
// design, for exercising the receipt-before-payment guard.
func (f *fakeSettlementStore) seedUnconfirmed(eventID, payerID, receiverID uuid.UUID, amount string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	row := &models.Settlement{
		ID:         uuid.New(),
		EventID:    eventID,
		PayerID:    payerID,
		ReceiverID: receiverID,
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.rows[row.ID] = row
	return row.ID
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (f *fakeAudit) Log(_ context.Context, entry models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func newTestService() (*SettlementService, *fakeSettlementStore, *fakeAudit, *fakePublisher) {
	store := newFakeStore()
	audit := &fakeAudit{}
	publisher := &fakePublisher{}
	svc := NewSettlementService(store, audit, publisher, zap.NewNop())
	return svc, store, audit, publisher
}

func TestConfirmPaymentCreatesPayerConfirmed(t *testing.T) {
	svc, _, audit, publisher := newTestService()
	eventID, payer, receiver := uuid.New(), uuid.New(), uuid.New()

	s, err := svc.ConfirmPayment(context.Background(), eventID, payer, receiver, "10.00")
	require.NoError(t, err)

	assert.True(t, s.PayerConfirmed)
	assert.False(t, s.ReceiverConfirmed)
	assert.NotNil(t, s.PayerConfirmedAt)
	assert.Nil(t, s.ReceiverConfirmedAt)
	assert.Equal(t, models.SettlementStatusPayerConfirmed, s.Status())
	assert.Len(t, audit.entries, 1)
	assert.Len(t, publisher.events, 1)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	svc, store, _, _ := newTestService()
	eventID, payer, receiver := uuid.New(), uuid.New(), uuid.New()

	first, err := svc.ConfirmPayment(context.Background(), eventID, payer, receiver, "10.00")
	require.NoError(t, err)
	second, err := svc.ConfirmPayment(context.Background(), eventID, payer, receiver, "10.00")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "repeat call must update the existing row")
	assert.True(t, second.PayerConfirmed)
	assert.Equal(t, first.PayerConfirmedAt, second.PayerConfirmedAt, "payer_confirmed_at is set exactly once")
	assert.Len(t, store.rows, 1)
}

func TestConfirmPaymentNormalizesAmount(t *testing.T) {
	svc, store, _, _ := newTestService()
	eventID, payer, receiver := uuid.New(), uuid.New(), uuid.New()

	first, err := svc.ConfirmPayment(context.Background(), eventID, payer, receiver, "10")
	require.NoError(t, err)
	second, err := svc.ConfirmPayment(context.Background(), eventID, payer, receiver, "10.00")
	require.NoError(t, err)

	assert.Equal(t, "10.00", first.Amount)
	assert.Equal(t, first.ID, second.ID, "'10' and '10.00' are the same natural key")
	assert.Len(t, store.rows, 1)
}

func TestConfirmPaymentValidation(t *testing.T) {
	svc, store, _, _ := newTestService()
	eventID, payer, receiver := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"missing event", func() error {
			_, err := svc.ConfirmPayment(ctx, uuid.Nil, payer, receiver, "10.00")
			return err
		}},
		{"missing payer", func() error {
			_, err := svc.ConfirmPayment(ctx, eventID, uuid.Nil, receiver, "10.00")
			return err
		}},
		{"missing receiver", func() error {
			_, err := svc.ConfirmPayment(ctx, eventID, payer, uuid.Nil, "10.00")
			return err
		}},
		{"zero amount", func() error {
			_, err := svc.ConfirmPayment(ctx, eventID, payer, receiver, "0")
			return err
		}},
		{"negative amount", func() error {
			_, err := svc.ConfirmPayment(ctx, eventID, payer, receiver, "-5.00")
			return err
		}},
		{"malformed amount", func() error {
			_, err := svc.ConfirmPayment(ctx, eventID, payer, receiver, "ten")
			return err
		}},
		{"self settlement", func() error {
			_, err := svc.ConfirmPayment(ctx, eventID, payer, payer, "10.00")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, CodeValidation, CodeOf(err))
		})
	}
	assert.Empty(t, store.rows, "validation failures must not persist anything")
}

func TestConfirmReceiptHappyPath(t *testing.T) {
	svc, _, _, publisher := newTestService()
	eventID, payer, receiver := uuid.New(), uuid.New(), uuid.New()

	created, err := svc.ConfirmPayment(context.Background(), eventID, payer, receiver, "10.00")
	require.NoError(t, err)

	settled, err := svc.ConfirmReceipt(context.Background(), created.ID, receiver)
	require.NoError(t, err)

	assert.True(t, settled.ReceiverConfirmed)
	assert.NotNil(t, settled.ReceiverConfirmedAt)
	assert.Equal(t, models.SettlementStatusFullySettled, settled.Status())
	assert.Len(t, publisher.events, 2)
}

func TestConfirmReceiptWrongUser(t *testing.T) {
	svc, _, _, _ := newTestService()
	eventID, payer, receiver := uuid.New(), uuid.New(), uuid.New()

	created, err := svc.ConfirmPayment(context.Background(), eventID, payer, receiver, "10.00")
	require.NoError(t, err)

	// The payer is not the receiver; existence must not leak.
	_, err = svc.ConfirmReceipt(context.Background(), created.ID, payer)
	require.Error(t, err)
	assert.Equal(t, CodeNotFoundOrUnauthorized, CodeOf(err))
}

func TestConfirmReceiptUnknownSettlement(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ConfirmReceipt(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, CodeNotFoundOrUnauthorized, CodeOf(err))
}

func TestConfirmReceiptBeforePayment(t *testing.T) {
	svc, store, _, _ := newTestService()
	eventID, payer, receiver := uuid.New(), uuid.New(), uuid.New()
	id := store.seedUnconfirmed(eventID, payer, receiver, "10.00")

	_, err := svc.ConfirmReceipt(context.Background(), id, receiver)
	require.Error(t, err)
	assert.Equal(t, CodePreconditionFailed, CodeOf(err))

	row, getErr := store.GetByIDForReceiver(context.Background(), id, receiver)
	require.NoError(t, getErr)
	assert.False(t, row.ReceiverConfirmed, "failed guard must not change state")
}

func TestConfirmReceiptValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ConfirmReceipt(context.Background(), uuid.Nil, uuid.New())
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = svc.ConfirmReceipt(context.Background(), uuid.New(), uuid.Nil)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestFullSettlementScenario(t *testing.T) {
	svc, _, _, _ := newTestService()
	eventID, alice, bob := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	created, err := svc.ConfirmPayment(ctx, eventID, alice, bob, "10.00")
	require.NoError(t, err)
	assert.True(t, created.PayerConfirmed)
	assert.False(t, created.ReceiverConfirmed)

	settled, err := svc.ConfirmReceipt(ctx, created.ID, bob)
	require.NoError(t, err)
	assert.True(t, settled.ReceiverConfirmed)

	// Alice is not the receiver, even on a fully settled record.
	_, err = svc.ConfirmReceipt(ctx, created.ID, alice)
	require.Error(t, err)
	assert.Equal(t, CodeNotFoundOrUnauthorized, CodeOf(err))

	// Bob re-asserting receipt is a no-op success.
	again, err := svc.ConfirmReceipt(ctx, created.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, settled.ReceiverConfirmedAt, again.ReceiverConfirmedAt, "receiver_confirmed_at is set exactly once")

	// Re-confirming payment after full settlement is a no-op re-assertion.
	after, err := svc.ConfirmPayment(ctx, eventID, alice, bob, "10.00")
	require.NoError(t, err)
	assert.Equal(t, created.ID, after.ID)
	assert.True(t, after.ReceiverConfirmed, "receiver confirmation must survive")
	assert.Equal(t, created.PayerConfirmedAt, after.PayerConfirmedAt)
}

func TestEventSettlementsOrderedAndEnriched(t *testing.T) {
	svc, store, _, _ := newTestService()
	eventID, other := uuid.New(), uuid.New()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	store.names[alice] = "Alice"
	store.names[bob] = "Bob"
	store.names[carol] = "Carol"
	ctx := context.Background()

	first, err := svc.ConfirmPayment(ctx, eventID, alice, bob, "10.00")
	require.NoError(t, err)
	second, err := svc.ConfirmPayment(ctx, eventID, carol, bob, "5.00")
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, other, alice, carol, "7.00")
	require.NoError(t, err)

	list, err := svc.EventSettlements(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, list, 2, "only rows for the requested event")
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "Carol", list[0].PayerName)
	assert.Equal(t, "Bob", list[0].ReceiverName)
}

func TestUserSettlementsAcrossEvents(t *testing.T) {
	svc, _, _, _ := newTestService()
	eventA, eventB := uuid.New(), uuid.New()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	asPayer, err := svc.ConfirmPayment(ctx, eventA, bob, alice, "3.00")
	require.NoError(t, err)
	asReceiver, err := svc.ConfirmPayment(ctx, eventB, alice, carol, "4.00")
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, eventA, carol, bob, "5.00")
	require.NoError(t, err)

	all, err := svc.UserSettlements(ctx, alice, nil)
	require.NoError(t, err)
	require.Len(t, all, 2, "payer or receiver, across all events")
	assert.Equal(t, asReceiver.ID, all[0].ID, "newest first")
	assert.Equal(t, asPayer.ID, all[1].ID)

	scoped, err := svc.UserSettlements(ctx, alice, &eventA)
	require.NoError(t, err)
	require.Len(t, scoped, 1, "event filter restricts the ledger")
	assert.Equal(t, asPayer.ID, scoped[0].ID)
}

func TestQueryValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.EventSettlements(context.Background(), uuid.Nil)
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = svc.UserSettlements(context.Background(), uuid.Nil, nil)
	assert.Equal(t, CodeValidation, CodeOf(err))
}
