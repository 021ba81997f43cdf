package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vuthy55/roomledger/internal/adapters/database/memory"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/core/services"
)

// MockNotifier is a mock type for the Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, message string) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}

// MockPublisher is a mock type for the EventPublisher interface.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, event any) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

// testEnv wires the services against the in-memory store so tests get real
// transactional semantics (rollback on error, serialized commits) without a
// database.
type testEnv struct {
	store     *memory.Store
	rates     portssvc.RatePolicyProvider
	ledger    portssvc.LedgerSvcFacade
	users     portssvc.UserSvcFacade
	rooms     portssvc.RoomSvcFacade
	presence  portssvc.PresenceSvcFacade
	notifier  *MockNotifier
	publisher *MockPublisher
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	notifier := new(MockNotifier)
	publisher := new(MockPublisher)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	rates := services.NewRatePolicyService(store, nil, 0)
	ledger := services.NewLedgerService(store, store, store, publisher)

	return &testEnv{
		store:     store,
		rates:     rates,
		ledger:    ledger,
		users:     services.NewUserService(store, store, ledger, rates),
		rooms:     services.NewRoomService(store, store, ledger, rates),
		presence:  services.NewPresenceService(store, store, store, store, notifier),
		notifier:  notifier,
		publisher: publisher,
	}
}

// newReconciler builds a reconciliation service with a pinned clock.
func (e *testEnv) newReconciler(now time.Time) portssvc.ReconciliationSvcFacade {
	return services.NewReconciliationService(
		e.store, e.store, e.store, e.ledger, e.rates, e.notifier, e.publisher,
		services.WithClock(func() time.Time { return now }),
	)
}

// seedUser creates a user record and a funded token account.
func (e *testEnv) seedUser(userID string, balance int64) (*domain.Account, error) {
	ctx := context.Background()
	now := time.Now().UTC()
	err := e.store.SaveUser(ctx, domain.User{
		UserID: userID,
		Name:   userID,
		Email:  userID + "@example.com",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	})
	if err != nil {
		return nil, err
	}
	return e.ledger.CreateAccount(ctx, userID, balance)
}
