package repositories

// RepositoryProvider bundles the persistence ports for injection into the
// service layer. Both the pgsql adapter and the in-memory test store can
// populate it.
type RepositoryProvider struct {
	Transactor      Transactor
	AccountRepo     AccountRepository
	LedgerRepo      LedgerRepository
	RoomRepo        RoomRepository
	ParticipantRepo ParticipantRepository
	UserRepo        UserRepository
	SettingsRepo    SettingsRepository
}
