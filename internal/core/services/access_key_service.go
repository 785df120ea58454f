package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
)

// Wording flags added by the access key service itself.
const (
	FlagSelectedDateProtected = "SelectedDateProtected"
	FlagHasDCAssets           = "HasDCAssets"
)

// accessKeyService implements the AccessKeySvcFacade interface
type accessKeyService struct {
	BaseService
	retirementData     portssvc.RetirementAccessKeyDataSvc
	wordingFlags       portssvc.AccessKeyWordingFlagsSvc
	calculationRepo    portsrepo.CalculationReader
	transferRepo       portsrepo.TransferCalculationRepositoryFacade
	calculationsClient portsclients.CalculationsClient
	investmentClient   portsclients.InvestmentServiceClient
	accessKeyCache     portsclients.AccessKeyCache
	calculationsCache  portsclients.CalculationsCache
	memberLock         portsclients.MemberLock
}

// AccessKeyOption is a functional option for configuring the access key service
type AccessKeyOption func(*accessKeyService)

// WithAccessKeyClock overrides the clock used for ages and life stages
func WithAccessKeyClock(clock func() time.Time) AccessKeyOption {
	return func(s *accessKeyService) {
		s.Clock = clock
	}
}

// WithInvestmentClient enables the DC asset check for DB members
func WithInvestmentClient(client portsclients.InvestmentServiceClient) AccessKeyOption {
	return func(s *accessKeyService) {
		s.investmentClient = client
	}
}

// WithAccessKeyCache enables caching of serialised access keys
func WithAccessKeyCache(cache portsclients.AccessKeyCache) AccessKeyOption {
	return func(s *accessKeyService) {
		s.accessKeyCache = cache
	}
}

// WithCalculationsCache lets recalculation drop cached calculation API responses
func WithCalculationsCache(cache portsclients.CalculationsCache) AccessKeyOption {
	return func(s *accessKeyService) {
		s.calculationsCache = cache
	}
}

// WithMemberLock serialises recalculation per member
func WithMemberLock(lock portsclients.MemberLock) AccessKeyOption {
	return func(s *accessKeyService) {
		s.memberLock = lock
	}
}

// NewAccessKeyService creates a new access key service with the provided options
func NewAccessKeyService(
	retirementData portssvc.RetirementAccessKeyDataSvc,
	wordingFlags portssvc.AccessKeyWordingFlagsSvc,
	calculationRepo portsrepo.CalculationReader,
	transferRepo portsrepo.TransferCalculationRepositoryFacade,
	calculationsClient portsclients.CalculationsClient,
	options ...AccessKeyOption,
) portssvc.AccessKeySvcFacade {
	svc := &accessKeyService{
		retirementData:     retirementData,
		wordingFlags:       wordingFlags,
		calculationRepo:    calculationRepo,
		transferRepo:       transferRepo,
		calculationsClient: calculationsClient,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccessKeySvcFacade = (*accessKeyService)(nil)

// CalculateKey builds the member's access key, in basic mode when the request asks for it.
func (s *accessKeyService) CalculateKey(ctx context.Context, req domain.AccessKeyRequest) (string, error) {
	if req.Member == nil {
		return "", fmt.Errorf("%w: member is required", apperrors.ErrValidation)
	}
	var key *domain.AccessKey
	if req.UseBasicMode {
		key = s.buildAccessKeyBasic(ctx, req)
	} else {
		key = s.buildAccessKey(ctx, req)
	}
	return key.JSON()
}

func (s *accessKeyService) buildAccessKeyBasic(ctx context.Context, req domain.AccessKeyRequest) *domain.AccessKey {
	member := req.Member
	s.LogInfo(ctx, "Bulding Basic access key using BuildAccessKeyBasic", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)

	flags := concatFlags(
		s.wordingFlags.GetLinkedMemberFlags(ctx, member, req.UseSingleAuth, req.SingleAuthClaim),
		s.wordingFlags.GetWordingsForWebRules(ctx, member, req.UserID, req.ClassifierValues),
		s.wordingFlags.GetSchemeFlags(member),
		s.wordingFlags.GetCategoryFlags(member),
	)
	return &domain.AccessKey{
		TenantURL:                   req.TenantURL,
		HasAdditionalContributions:  member.HasAdditionalContributions,
		SchemeType:                  string(member.SchemeType),
		MemberStatus:                string(member.Status),
		LifeStage:                   string(domain.LifeStageUndefined),
		RetirementApplicationStatus: string(domain.RAUndefined),
		TransferApplicationStatus:   string(domain.TAUndefined),
		WordingFlags:                flags,
		CurrentAge:                  member.CurrentAgeLabel(s.Now()),
		DbCalculationStatus:         domain.CalcNotAccessible,
		DcLifeStage:                 domain.DcLifeStageUndefined,
		IsWebChatEnabled:            req.IsWebChatEnabled,
	}
}

func (s *accessKeyService) buildAccessKey(ctx context.Context, req domain.AccessKeyRequest) *domain.AccessKey {
	member := req.Member
	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)
	now := s.Now()

	datesAges, err := s.calculationsClient.RetirementDatesAges(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogWarn(ctx, "Retirement dates and ages unavailable", append(attrs, slog.String("error", err.Error()))...)
		datesAges = nil
	}

	outcome := s.resolveCalculation(ctx, member, datesAges)
	if outcome.Err != nil {
		s.LogInfo(ctx, "Retirement calculation not available for access key", append(attrs, slog.String("error", outcome.Err.Error()))...)
	}

	transfer, err := s.transferRepo.FindTransferCalculation(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up transfer calculation", attrs...)
		transfer = nil
	}

	lifeStage := domain.LifeStageUndefined
	if datesAges != nil {
		lifeStage = datesAges.LifeStage(member, now, req.PreRetirementAgePeriod, req.NewlyRetiredRange)
	}
	raStatus := s.retirementData.GetRetirementApplicationStatus(member, outcome, req.PreRetirementAgePeriod, req.NewlyRetiredRange)

	flags := concatFlags(
		s.wordingFlags.GetRetirementFlags(ctx, outcome, member.IsSchemeDC()),
		s.wordingFlags.GetSchemeFlags(member),
		s.wordingFlags.GetCategoryFlags(member),
		s.wordingFlags.GetIfaReferralFlags(ctx, member),
		s.wordingFlags.GetHbsFlags(member, datesAges),
		s.wordingFlags.GetLinkedMemberFlags(ctx, member, req.UseSingleAuth, req.SingleAuthClaim),
		s.wordingFlags.GetPayTimelineWordingFlags(ctx, member),
		s.wordingFlags.GetCalcApiDatesAgesEndpointWordingFlags(datesAges),
		s.wordingFlags.GetTransferFlags(ctx, transfer),
		s.wordingFlags.GetGenericJourneysFlags(ctx, member),
		s.wordingFlags.GetQuoteSelectionFlags(ctx, member, outcome.Calculation),
		s.wordingFlags.GetRetirementOrTransferCasesFlags(ctx, member),
		s.wordingFlags.GetDeathCasesWordingFlags(ctx, member),
		s.wordingFlags.GetBankAccountWordingFlags(ctx, member),
		s.wordingFlags.GetNmpaFlags(member),
		s.wordingFlags.GetWordingsForWebRules(ctx, member, req.UserID, req.ClassifierValues),
	)

	protectedQuotes := s.protectedQuotes(ctx, member, outcome, req.GuaranteedQuotesEnabled)
	if protectedQuotes > 0 {
		flags = concatFlags(flags, []string{FlagSelectedDateProtected})
	}
	if s.hasDCAssets(ctx, member) {
		flags = concatFlags(flags, []string{FlagHasDCAssets})
	}

	calcSuccessful := outcome.IsSuccess() && outcome.Calculation.IsSuccessful()
	dcLifeStage := domain.DcLifeStageUndefined
	if member.IsSchemeDC() && calcSuccessful && datesAges != nil {
		dcLifeStage = domain.DcLifeStageLabel(domain.DcJourneyStatusFromFlags(flags), lifeStage)
	}

	return &domain.AccessKey{
		TenantURL:                   req.TenantURL,
		IsCalculationSuccessful:     calcSuccessful,
		HasAdditionalContributions:  member.HasAdditionalContributions,
		SchemeType:                  string(member.SchemeType),
		MemberStatus:                string(member.Status),
		LifeStage:                   string(lifeStage),
		RetirementApplicationStatus: string(raStatus),
		TransferApplicationStatus:   string(domain.TransferApplicationStatusOf(transfer)),
		WordingFlags:                flags,
		CurrentAge:                  member.CurrentAgeLabel(now),
		DbCalculationStatus:         dbCalculationStatus(outcome),
		DcLifeStage:                 dcLifeStage,
		IsWebChatEnabled:            req.IsWebChatEnabled,
		HasProtectedQuote:           protectedQuotes > 0,
		NumberOfProtectedQuotes:     protectedQuotes,
	}
}

// resolveCalculation obtains the calculation behind the access key: the journey-linked one when a
// retirement application exists, otherwise a freshly computed one.
func (s *accessKeyService) resolveCalculation(ctx context.Context, member *domain.Member, datesAges *domain.RetirementDatesAges) domain.CalculationOutcome {
	journeyType, err := s.retirementData.GetExistingRetirementJourneyType(ctx, member)
	if err != nil {
		s.LogError(ctx, err, "Failed to determine existing retirement journey", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return domain.OutcomeOf(nil, err)
	}
	switch journeyType {
	case domain.ExistingJourneyDbRetirementApplication, domain.ExistingJourneyDcRetirementApplication:
		return domain.OutcomeOf(s.retirementData.GetRetirementCalculationWithJourney(ctx, datesAges, member.ReferenceNumber, member.BusinessGroup))
	}
	if datesAges == nil {
		return domain.OutcomeOf(nil, apperrors.ErrDatesAgesUnavailable)
	}
	return domain.OutcomeOf(s.retirementData.GetNewRetirementCalculation(ctx, datesAges, member))
}

// protectedQuotes counts the member's unexpired guaranteed quotes. Nothing is fetched unless the tenant
// enables guaranteed quotes and the calculation succeeded.
func (s *accessKeyService) protectedQuotes(ctx context.Context, member *domain.Member, outcome domain.CalculationOutcome, enabled bool) int {
	if !enabled || !outcome.IsSuccess() || !outcome.Calculation.IsSuccessful() {
		return 0
	}
	quotes, err := s.calculationsClient.GetGuaranteedQuotes(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch guaranteed quotes", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return 0
	}

	now := s.Now()
	count := 0
	for _, q := range quotes {
		if !q.IsExpired(now) {
			count++
		}
	}
	return count
}

func (s *accessKeyService) hasDCAssets(ctx context.Context, member *domain.Member) bool {
	if member.IsSchemeDC() || s.investmentClient == nil {
		return false
	}
	balance, err := s.investmentClient.GetInternalBalance(ctx, member.BusinessGroup, member.ReferenceNumber, member.SchemeCode, member.Category)
	if err != nil {
		s.LogWarn(ctx, "Internal balance unavailable", append(memberAttrs(member.BusinessGroup, member.ReferenceNumber), slog.String("error", err.Error()))...)
		return false
	}
	return balance != nil && balance.TotalValue.IsPositive()
}

// GetOrCalculateKey serves the cached key when there is one, otherwise builds and caches it.
// Basic mode keys are never cached.
func (s *accessKeyService) GetOrCalculateKey(ctx context.Context, req domain.AccessKeyRequest) (string, error) {
	if req.Member == nil {
		return "", fmt.Errorf("%w: member is required", apperrors.ErrValidation)
	}
	if req.UseBasicMode || s.accessKeyCache == nil {
		return s.CalculateKey(ctx, req)
	}

	member := req.Member
	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)
	cached, ok, err := s.accessKeyCache.Get(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogWarn(ctx, "Access key cache read failed", append(attrs, slog.String("error", err.Error()))...)
	} else if ok {
		s.LogDebug(ctx, "Serving cached access key", attrs...)
		return cached, nil
	}

	key, err := s.CalculateKey(ctx, req)
	if err != nil {
		return "", err
	}
	s.storeKey(ctx, member, key)
	return key, nil
}

// RecalculateKey drops every cached value for the member and builds the key again under the member lock.
func (s *accessKeyService) RecalculateKey(ctx context.Context, req domain.AccessKeyRequest) (string, error) {
	if req.Member == nil {
		return "", fmt.Errorf("%w: member is required", apperrors.ErrValidation)
	}
	member := req.Member
	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)

	if s.memberLock != nil {
		release, err := s.memberLock.Acquire(ctx, member.BusinessGroup, member.ReferenceNumber)
		if err != nil {
			s.LogWarn(ctx, "Recalculation already in progress", append(attrs, slog.String("error", err.Error()))...)
			return "", err
		}
		defer func() {
			if err := release(ctx); err != nil {
				s.LogError(ctx, err, "Failed to release member lock", attrs...)
			}
		}()
	}

	if s.accessKeyCache != nil {
		if err := s.accessKeyCache.Remove(ctx, member.BusinessGroup, member.ReferenceNumber); err != nil {
			s.LogWarn(ctx, "Failed to remove cached access key", append(attrs, slog.String("error", err.Error()))...)
		}
	}
	if s.calculationsCache != nil {
		if err := s.calculationsCache.Clear(ctx, member.BusinessGroup, member.ReferenceNumber); err != nil {
			s.LogWarn(ctx, "Failed to clear calculations cache", append(attrs, slog.String("error", err.Error()))...)
		}
	}

	if member.IsSchemeDC() {
		s.refreshDcDatesAges(ctx, member)
	}

	key, err := s.CalculateKey(ctx, req)
	if err != nil {
		return "", err
	}
	if !req.UseBasicMode {
		s.storeKey(ctx, member, key)
	}
	return key, nil
}

// refreshDcDatesAges writes freshly fetched dates and ages onto the member's existing calculation.
func (s *accessKeyService) refreshDcDatesAges(ctx context.Context, member *domain.Member) {
	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)
	datesAges, err := s.calculationsClient.RetirementDatesAges(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogWarn(ctx, "Retirement dates and ages unavailable for refresh", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	calc, err := s.calculationRepo.FindCalculation(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up calculation for refresh", attrs...)
		return
	}
	if calc == nil {
		return
	}
	if err := s.retirementData.UpdateRetirementDatesAges(ctx, calc, datesAges); err != nil {
		s.LogError(ctx, err, "Failed to refresh retirement dates and ages", attrs...)
	}
}

func (s *accessKeyService) storeKey(ctx context.Context, member *domain.Member, key string) {
	if s.accessKeyCache == nil {
		return
	}
	if err := s.accessKeyCache.Set(ctx, member.BusinessGroup, member.ReferenceNumber, key); err != nil {
		s.LogWarn(ctx, "Failed to cache access key", append(memberAttrs(member.BusinessGroup, member.ReferenceNumber), slog.String("error", err.Error()))...)
	}
}

// ParseJSONToAccessKey decodes a serialised access key, returning nil when it is not valid JSON.
func (s *accessKeyService) ParseJSONToAccessKey(raw string) *domain.AccessKey {
	return domain.ParseAccessKey(raw)
}

// GetDcJourneyStatus returns the most advanced DC journey state named by the wording flags.
func (s *accessKeyService) GetDcJourneyStatus(wordingFlags []string) *domain.DcJourneyStatus {
	return domain.DcJourneyStatusFromFlags(wordingFlags)
}

func dbCalculationStatus(outcome domain.CalculationOutcome) string {
	if !outcome.IsSuccess() {
		return domain.CalcNotAccessible
	}
	switch {
	case outcome.Calculation.IsSuccessful():
		return domain.CalcAccessible
	case outcome.Calculation.HasNoFigures():
		return domain.CalcNoFigures
	}
	return domain.CalcNotAccessible
}

// concatFlags joins flag groups in order, dropping blanks and repeats.
func concatFlags(groups ...[]string) []string {
	seen := make(map[string]bool)
	flags := []string{}
	for _, group := range groups {
		for _, f := range group {
			if strings.TrimSpace(f) == "" || seen[f] {
				continue
			}
			seen[f] = true
			flags = append(flags, f)
		}
	}
	return flags
}
