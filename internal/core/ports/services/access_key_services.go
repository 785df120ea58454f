package services

import (
	"context"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// RetirementAccessKeyDataSvc obtains and classifies the retirement calculation behind an access key
type RetirementAccessKeyDataSvc interface {
	// GetNewRetirementCalculation runs a fresh calculation for the member and persists its outcome.
	// An ineligible member yields a calculation with status forbidden, not an error.
	GetNewRetirementCalculation(ctx context.Context, datesAges *domain.RetirementDatesAges, member *domain.Member) (*domain.Calculation, error)

	// GetRetirementCalculationWithJourney returns the calculation linked to the member's retirement
	// journey, refreshing it when the journey has expired. Panics when no such link exists.
	GetRetirementCalculationWithJourney(ctx context.Context, datesAges *domain.RetirementDatesAges, referenceNumber, businessGroup string) (*domain.Calculation, error)

	GetExistingRetirementJourneyType(ctx context.Context, member *domain.Member) (domain.ExistingRetirementJourneyType, error)

	GetRetirementApplicationStatus(member *domain.Member, outcome domain.CalculationOutcome, preRetirementYears, newlyRetiredMonths int) domain.RetirementApplicationStatus

	UpdateRetirementDatesAges(ctx context.Context, calculation *domain.Calculation, datesAges *domain.RetirementDatesAges) error
}

// AccessKeyWordingFlagsSvc derives wording flags. Every method is best effort: failures yield no flags.
type AccessKeyWordingFlagsSvc interface {
	GetCalcApiDatesAgesEndpointWordingFlags(datesAges *domain.RetirementDatesAges) []string
	GetHbsFlags(member *domain.Member, datesAges *domain.RetirementDatesAges) []string
	GetSchemeFlags(member *domain.Member) []string
	GetCategoryFlags(member *domain.Member) []string
	GetIfaReferralFlags(ctx context.Context, member *domain.Member) []string
	GetLinkedMemberFlags(ctx context.Context, member *domain.Member, useSingleAuth bool, claim *domain.SingleAuthClaim) []string
	GetPayTimelineWordingFlags(ctx context.Context, member *domain.Member) []string
	GetRetirementFlags(ctx context.Context, outcome domain.CalculationOutcome, isSchemeDC bool) []string
	GetTransferFlags(ctx context.Context, transfer *domain.TransferCalculation) []string
	GetGenericJourneysFlags(ctx context.Context, member *domain.Member) []string
	GetQuoteSelectionFlags(ctx context.Context, member *domain.Member, calculation *domain.Calculation) []string
	GetRetirementOrTransferCasesFlags(ctx context.Context, member *domain.Member) []string
	GetDeathCasesWordingFlags(ctx context.Context, member *domain.Member) []string
	GetBankAccountWordingFlags(ctx context.Context, member *domain.Member) []string
	GetNmpaFlags(member *domain.Member) []string
	GetWordingsForWebRules(ctx context.Context, member *domain.Member, userID string, classifierValues []domain.ClassifierValue) []string
}

// AccessKeySvcFacade builds, caches and parses access keys
type AccessKeySvcFacade interface {
	// CalculateKey builds the serialised access key without consulting the cache.
	CalculateKey(ctx context.Context, req domain.AccessKeyRequest) (string, error)

	// GetOrCalculateKey serves the cached access key, building and caching it when absent.
	GetOrCalculateKey(ctx context.Context, req domain.AccessKeyRequest) (string, error)

	// RecalculateKey drops every cached value for the member and builds the key again.
	RecalculateKey(ctx context.Context, req domain.AccessKeyRequest) (string, error)

	ParseJSONToAccessKey(raw string) *domain.AccessKey
	GetDcJourneyStatus(wordingFlags []string) *domain.DcJourneyStatus
}

// QuoteSelectionSvc resolves the retirement quote a member selected
type QuoteSelectionSvc interface {
	// GetSelectedQuoteName prefers the quote selection journey record over the calculation's own label.
	GetSelectedQuoteName(ctx context.Context, businessGroup, referenceNumber string, calculation *domain.Calculation) (string, error)

	// GetLumpSumSelection returns nil when no quote is selected or the quote is not in the calculation.
	GetLumpSumSelection(ctx context.Context, calculation *domain.Calculation) (*domain.LumpSumSelection, error)
}
