package services

import (
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, clients portsclients.ClientProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Member = NewMemberService(repos.MemberRepo, repos.TenantSettingsRepo)
	container.QuoteSelection = NewQuoteSelectionService(repos.QuoteSelectionRepo)

	container.RetirementData = NewRetirementAccessKeyDataService(
		repos.CalculationRepo,
		repos.JourneyRepo,
		repos.MemberRepo,
		repos.UnitOfWork,
		clients.Calculations,
	)

	// Optional collaborators are only wired when configured
	flagOptions := []WordingFlagsOption{}
	if clients.SingleAuth != nil {
		flagOptions = append(flagOptions, WithSingleAuthService(clients.SingleAuth))
	}
	if clients.Cases != nil {
		flagOptions = append(flagOptions, WithCasesClient(clients.Cases))
	}
	if clients.Bank != nil {
		flagOptions = append(flagOptions, WithBankService(clients.Bank))
	}
	if clients.Epa != nil {
		flagOptions = append(flagOptions, WithEpaClient(clients.Epa))
	}
	container.WordingFlags = NewAccessKeyWordingFlagsService(
		repos.JourneyRepo,
		repos.IfaReferralRepo,
		repos.PayTimelineRepo,
		container.QuoteSelection,
		flagOptions...,
	)

	keyOptions := []AccessKeyOption{}
	if clients.Investment != nil {
		keyOptions = append(keyOptions, WithInvestmentClient(clients.Investment))
	}
	if clients.AccessKeyCache != nil {
		keyOptions = append(keyOptions, WithAccessKeyCache(clients.AccessKeyCache))
	}
	if clients.CalculationsCache != nil {
		keyOptions = append(keyOptions, WithCalculationsCache(clients.CalculationsCache))
	}
	if clients.MemberLock != nil {
		keyOptions = append(keyOptions, WithMemberLock(clients.MemberLock))
	}
	container.AccessKey = NewAccessKeyService(
		container.RetirementData,
		container.WordingFlags,
		repos.CalculationRepo,
		repos.TransferCalculationRepo,
		clients.Calculations,
		keyOptions...,
	)

	journeyOptions := []JourneyOption{}
	if clients.AccessKeyCache != nil {
		journeyOptions = append(journeyOptions, WithJourneyAccessKeyCache(clients.AccessKeyCache))
	}
	container.Journey = NewJourneyService(
		repos.JourneyRepo,
		repos.CalculationRepo,
		repos.TransferCalculationRepo,
		repos.MemberRepo,
		repos.UnitOfWork,
		repos.DualTxManager,
		journeyOptions...,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccessKeySvcFacade = (*accessKeyService)(nil)
	_ portssvc.JourneySvcFacade   = (*journeyService)(nil)
)
