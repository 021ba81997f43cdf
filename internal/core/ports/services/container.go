package services

// ServiceContainer bundles the service facades for injection into the HTTP
// layer.
type ServiceContainer struct {
	User           UserSvcFacade
	Ledger         LedgerSvcFacade
	Room           RoomSvcFacade
	Presence       PresenceSvcFacade
	Reconciliation ReconciliationSvcFacade
	Rates          RatePolicyProvider
}
