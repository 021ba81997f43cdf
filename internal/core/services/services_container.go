package services

import (
	"time"

	"github.com/go-redis/redis/v8"

	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. cache, notifier and publisher may be nil; the
// services degrade gracefully without them.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	cache *redis.Client,
	notifier portssvc.Notifier,
	publisher portssvc.EventPublisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Rates = NewRatePolicyService(repos.SettingsRepo, cache, cfg.RatePolicyCacheTTL)

	// Ledger first: everything else settles money through it.
	container.Ledger = NewLedgerService(repos.Transactor, repos.AccountRepo, repos.LedgerRepo, publisher)

	container.User = NewUserService(repos.Transactor, repos.UserRepo, container.Ledger, container.Rates)

	container.Room = NewRoomService(repos.Transactor, repos.RoomRepo, container.Ledger, container.Rates)

	container.Presence = NewPresenceService(repos.Transactor, repos.RoomRepo, repos.ParticipantRepo, repos.UserRepo, notifier)

	container.Reconciliation = NewReconciliationService(
		repos.Transactor,
		repos.RoomRepo,
		repos.ParticipantRepo,
		container.Ledger,
		container.Rates,
		notifier,
		publisher,
		WithRetryPolicy(cfg.TxMaxAttempts, 50*time.Millisecond, cfg.TxAttemptTimeout),
	)

	return container
}
