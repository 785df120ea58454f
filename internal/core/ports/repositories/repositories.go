package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	JourneyRepo             JourneyRepositoryFacade
	CalculationRepo         CalculationRepositoryFacade
	TransferCalculationRepo TransferCalculationRepositoryFacade
	QuoteSelectionRepo      QuoteSelectionJourneyReader
	TenantSettingsRepo      TenantSettingsReader
	PayTimelineRepo         PayTimelineReader
	IfaReferralRepo         IfaReferralReader
	MemberRepo              MemberRepositoryFacade
	UnitOfWork              UnitOfWork
	DualTxManager           DualTransactionManager
}
