package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
)

const (
	hbsBusinessGroup      = "HBS"
	ifaReferralWindowDays = 90
)

// Wording flags emitted directly by this service.
const (
	FlagLinkedMember              = "HASLINKEDMEMBER"
	FlagIfaReferral               = "IfaReferral"
	FlagNormalMinimumPensionAge   = "PMP-E"
	FlagBelowMinimumPensionAge    = "PMP-NE"
	FlagExpiredRetirementJourney  = "EXPIREDRA"
	FlagRequestedLumpSumBelowMax  = "RequestedLumpSumLessThanMax"
	FlagMPAA                      = "MPAA"
	FlagNonUKBankCountry          = "NonUkBankCountry"
	FlagTransferQuoteAvailable    = "TransferQuoteAvailable"
	FlagTransferQuoteLocked       = "TransferQuoteLocked"
	selectedQuoteNameFlagPrefix   = "SelectedQuoteName-"
	selectedQuoteSegmentSeparator = "_"
)

// mpaaQuoteTypes are the selections that trigger the money purchase annual allowance.
var mpaaQuoteTypes = map[string]bool{
	"cashLumpsum":         true,
	"incomeDrawdownTFC":   true,
	"incomeDrawdownITF":   true,
	"incomeDrawdownOMTFC": true,
	"incomeDrawdownOMITF": true,
}

var errSingleAuthClaimMissing = errors.New("single auth claim could not be resolved")

// accessKeyWordingFlagsService implements the AccessKeyWordingFlagsSvc interface
type accessKeyWordingFlagsService struct {
	BaseService
	journeyRepo     portsrepo.JourneyReader
	ifaReferralRepo portsrepo.IfaReferralReader
	payTimelineRepo portsrepo.PayTimelineReader
	quoteSelection  portssvc.QuoteSelectionSvc
	singleAuth      portsclients.SingleAuthService
	casesClient     portsclients.CasesClient
	bankService     portsclients.BankService
	epaClient       portsclients.EpaServiceClient
}

// WordingFlagsOption is a functional option for configuring the wording flags service
type WordingFlagsOption func(*accessKeyWordingFlagsService)

// WithWordingFlagsClock overrides the clock used for age and expiry checks
func WithWordingFlagsClock(clock func() time.Time) WordingFlagsOption {
	return func(s *accessKeyWordingFlagsService) {
		s.Clock = clock
	}
}

// WithSingleAuthService enables linked record lookups through single sign-on
func WithSingleAuthService(svc portsclients.SingleAuthService) WordingFlagsOption {
	return func(s *accessKeyWordingFlagsService) {
		s.singleAuth = svc
	}
}

// WithCasesClient adds the case management API dependency
func WithCasesClient(client portsclients.CasesClient) WordingFlagsOption {
	return func(s *accessKeyWordingFlagsService) {
		s.casesClient = client
	}
}

// WithBankService adds the bank account dependency
func WithBankService(svc portsclients.BankService) WordingFlagsOption {
	return func(s *accessKeyWordingFlagsService) {
		s.bankService = svc
	}
}

// WithEpaClient adds the web rule engine dependency
func WithEpaClient(client portsclients.EpaServiceClient) WordingFlagsOption {
	return func(s *accessKeyWordingFlagsService) {
		s.epaClient = client
	}
}

// NewAccessKeyWordingFlagsService creates a new wording flags service with the provided options
func NewAccessKeyWordingFlagsService(
	journeyRepo portsrepo.JourneyReader,
	ifaReferralRepo portsrepo.IfaReferralReader,
	payTimelineRepo portsrepo.PayTimelineReader,
	quoteSelection portssvc.QuoteSelectionSvc,
	options ...WordingFlagsOption,
) portssvc.AccessKeyWordingFlagsSvc {
	svc := &accessKeyWordingFlagsService{
		journeyRepo:     journeyRepo,
		ifaReferralRepo: ifaReferralRepo,
		payTimelineRepo: payTimelineRepo,
		quoteSelection:  quoteSelection,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccessKeyWordingFlagsSvc = (*accessKeyWordingFlagsService)(nil)

// GetCalcApiDatesAgesEndpointWordingFlags passes through the flags returned with the dates-ages response.
func (s *accessKeyWordingFlagsService) GetCalcApiDatesAgesEndpointWordingFlags(datesAges *domain.RetirementDatesAges) []string {
	if datesAges == nil {
		return []string{}
	}
	return append([]string{}, datesAges.WordingFlags...)
}

// GetHbsFlags compares HBS members against their normal minimum pension age.
func (s *accessKeyWordingFlagsService) GetHbsFlags(member *domain.Member, datesAges *domain.RetirementDatesAges) []string {
	if member.BusinessGroup != hbsBusinessGroup || datesAges == nil || datesAges.NormalMinimumPensionAge == nil {
		return nil
	}
	age, ok := member.AgeInYears(s.Now())
	if !ok {
		return nil
	}
	if age >= *datesAges.NormalMinimumPensionAge {
		return []string{FlagNormalMinimumPensionAge}
	}
	return []string{FlagBelowMinimumPensionAge}
}

// GetSchemeFlags returns "scheme_{code}".
func (s *accessKeyWordingFlagsService) GetSchemeFlags(member *domain.Member) []string {
	return []string{"scheme_" + member.SchemeCode}
}

// GetCategoryFlags returns "category_{code}".
func (s *accessKeyWordingFlagsService) GetCategoryFlags(member *domain.Member) []string {
	return []string{"category_" + member.Category}
}

// GetIfaReferralFlags flags members referred to an IFA within the referral window.
func (s *accessKeyWordingFlagsService) GetIfaReferralFlags(ctx context.Context, member *domain.Member) []string {
	since := s.Now().AddDate(0, 0, -ifaReferralWindowDays)
	referred, err := s.ifaReferralRepo.HasActiveReferral(ctx, member.BusinessGroup, member.ReferenceNumber, since)
	if err != nil {
		s.LogError(ctx, err, "Failed to check IFA referrals", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return nil
	}
	if !referred {
		return nil
	}
	return []string{FlagIfaReferral}
}

// GetLinkedMemberFlags flags members with linked records, through single auth when it is enabled.
func (s *accessKeyWordingFlagsService) GetLinkedMemberFlags(ctx context.Context, member *domain.Member, useSingleAuth bool, claim *domain.SingleAuthClaim) []string {
	if !useSingleAuth {
		if len(member.LinkedMembers) > 0 {
			return []string{FlagLinkedMember}
		}
		return nil
	}

	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)
	if claim == nil || claim.SubjectID == "" || s.singleAuth == nil {
		s.LogError(ctx, errSingleAuthClaimMissing, "Failed to resolve single auth claim for linked members", attrs...)
		return nil
	}
	records, err := s.singleAuth.GetLinkedRecords(ctx, *claim, member.BusinessGroup)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch linked records", attrs...)
		return nil
	}
	if len(records) == 0 {
		s.LogWarn(ctx, "No linked records found for single auth subject", attrs...)
		return nil
	}
	s.LogInfo(ctx, "Linked records found for single auth subject", append(attrs, slog.Int("linked_records", len(records)))...)
	return []string{FlagLinkedMember}
}

// GetPayTimelineWordingFlags returns the payment day flag of the most specific pay timeline row.
func (s *accessKeyWordingFlagsService) GetPayTimelineWordingFlags(ctx context.Context, member *domain.Member) []string {
	rows, err := s.payTimelineRepo.FindPayTimelines(ctx, member.BusinessGroup)
	if err != nil {
		s.LogError(ctx, err, "Failed to load pay timelines", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return nil
	}
	flag := domain.MatchPayTimeline(rows, member.Category, member.SchemeCode).WordingFlag()
	if flag == "" {
		return nil
	}
	return []string{flag}
}

// GetRetirementFlags derives GMP, tranche, journey and lump sum flags from a successful calculation.
func (s *accessKeyWordingFlagsService) GetRetirementFlags(ctx context.Context, outcome domain.CalculationOutcome, isSchemeDC bool) []string {
	if !outcome.IsSuccess() {
		return nil
	}
	calc := outcome.Calculation
	attrs := memberAttrs(calc.BusinessGroup, calc.ReferenceNumber)

	if !calc.IsRetirementV2() {
		if calc.RetirementJSON == "" {
			return nil
		}
		summary, err := domain.ParseRetirementV1(calc.RetirementJSON)
		if err != nil {
			s.LogError(ctx, err, "Failed to parse retirement payload", attrs...)
			return nil
		}
		return summary.GMPFlags()
	}

	var flags []string
	summary, err := domain.ParseRetirementV2(calc.RetirementJSONV2)
	if err != nil {
		s.LogError(ctx, err, "Failed to parse retirement v2 payload", attrs...)
	} else {
		flags = append(flags, summary.GMPFlags()...)
		flags = append(flags, summary.TrancheFlags()...)
	}

	if calc.HasJourney() {
		if calc.Journey.IsExpired(s.Now()) {
			flags = append(flags, FlagExpiredRetirementJourney)
		}
		flags = append(flags, calc.Journey.QuestionAnswerFlags()...)
	}

	if !isSchemeDC && s.quoteSelection != nil {
		selection, err := s.quoteSelection.GetLumpSumSelection(ctx, calc)
		if err != nil {
			s.LogError(ctx, err, "Failed to resolve lump sum selection", attrs...)
		} else if selection != nil && selection.IsLessThanMaximum() {
			flags = append(flags, FlagRequestedLumpSumBelowMax)
		}
	}
	return flags
}

// GetTransferFlags reports the transfer quote state and the transfer application status.
func (s *accessKeyWordingFlagsService) GetTransferFlags(ctx context.Context, transfer *domain.TransferCalculation) []string {
	if transfer == nil {
		return nil
	}
	var flags []string
	if transfer.HasQuote() {
		flags = append(flags, FlagTransferQuoteAvailable)
	}
	if transfer.LockTransferQuote {
		flags = append(flags, FlagTransferQuoteLocked)
	}
	return append(flags, string(transfer.ApplicationStatus()))
}

// GetGenericJourneysFlags emits type, status and answer flags for every live journey.
func (s *accessKeyWordingFlagsService) GetGenericJourneysFlags(ctx context.Context, member *domain.Member) []string {
	journeys, err := s.journeyRepo.FindAllJourneys(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to load member journeys", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return nil
	}

	now := s.Now()
	var flags []string
	for i := range journeys {
		j := &journeys[i]
		if j.IsExpired(now) || j.IsMarkedForRemoval {
			continue
		}
		flags = append(flags, j.Type, j.Status, j.Type+"-"+j.Status)
		for _, f := range j.WordingFlags {
			if strings.TrimSpace(f) != "" {
				flags = append(flags, f)
			}
		}
		flags = append(flags, j.QuestionAnswerFlags()...)
	}
	return flags
}

// GetQuoteSelectionFlags names the selected retirement quote and its last segment.
func (s *accessKeyWordingFlagsService) GetQuoteSelectionFlags(ctx context.Context, member *domain.Member, calculation *domain.Calculation) []string {
	if s.quoteSelection == nil {
		return nil
	}
	name, err := s.quoteSelection.GetSelectedQuoteName(ctx, member.BusinessGroup, member.ReferenceNumber, calculation)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve selected quote", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return nil
	}
	if name == "" {
		return nil
	}
	flags := []string{name, selectedQuoteNameFlagPrefix + name}
	segment := name
	if idx := strings.LastIndex(name, selectedQuoteSegmentSeparator); idx >= 0 {
		segment = name[idx+1:]
	}
	if mpaaQuoteTypes[segment] {
		flags = append(flags, FlagMPAA)
	}
	return flags
}

// GetRetirementOrTransferCasesFlags flags open quote and paper application cases.
func (s *accessKeyWordingFlagsService) GetRetirementOrTransferCasesFlags(ctx context.Context, member *domain.Member) []string {
	if s.casesClient == nil {
		return nil
	}
	cases, err := s.casesClient.GetRetirementOrTransferCases(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch retirement or transfer cases", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return nil
	}
	return domain.RetirementOrTransferCaseFlags(cases)
}

// GetDeathCasesWordingFlags flags open death cases relevant to the member's status.
func (s *accessKeyWordingFlagsService) GetDeathCasesWordingFlags(ctx context.Context, member *domain.Member) []string {
	if s.casesClient == nil {
		return nil
	}
	cases, err := s.casesClient.GetDeathCases(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch death cases", memberAttrs(member.BusinessGroup, member.ReferenceNumber)...)
		return nil
	}
	var flags []string
	for _, c := range cases {
		if !c.IsOpen() {
			continue
		}
		if flag := domain.DeathCasesWordingFlag(member.StatusCode, c.CaseCode); flag != "" {
			flags = append(flags, flag)
		}
	}
	return flags
}

// GetBankAccountWordingFlags flags members paid into a bank account outside the UK.
func (s *accessKeyWordingFlagsService) GetBankAccountWordingFlags(ctx context.Context, member *domain.Member) []string {
	if s.bankService == nil {
		return nil
	}
	account, err := s.bankService.FetchBankAccount(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogWarn(ctx, "Bank account unavailable", append(memberAttrs(member.BusinessGroup, member.ReferenceNumber), slog.String("error", err.Error()))...)
		return nil
	}
	if account == nil || !account.IsNonUK() {
		return nil
	}
	return []string{FlagNonUKBankCountry}
}

// GetNmpaFlags returns the member's normal minimum pension age cohort.
func (s *accessKeyWordingFlagsService) GetNmpaFlags(member *domain.Member) []string {
	if member.DateOfBirth == nil {
		return nil
	}
	return []string{string(domain.NmpaCohortFor(*member.DateOfBirth))}
}

// GetWordingsForWebRules evaluates the tenant's web rules for the member through the EPA service.
func (s *accessKeyWordingFlagsService) GetWordingsForWebRules(ctx context.Context, member *domain.Member, userID string, classifierValues []domain.ClassifierValue) []string {
	if len(classifierValues) == 0 {
		return nil
	}
	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)
	if strings.TrimSpace(userID) == "" {
		s.LogWarn(ctx, "Skipping web rules without a user id", attrs...)
		return nil
	}
	if s.epaClient == nil {
		return nil
	}

	var flags []string
	for _, cv := range classifierValues {
		rule, err := domain.ParseWebRule(cv.Value)
		if err != nil {
			s.LogWarn(ctx, "Invalid web rule classifier", append(attrs,
				slog.String("key", cv.Key),
				slog.String("value", cv.Value),
				slog.String("error", err.Error()))...)
			continue
		}
		result, err := s.epaClient.GetWebRuleResult(ctx, member.BusinessGroup, member.ReferenceNumber, userID, rule.RuleID, rule.UseCache)
		if err != nil {
			s.LogError(ctx, err, "Web rule evaluation failed", append(attrs, slog.String("rule_id", rule.RuleID))...)
			continue
		}
		if result != nil && result.Result == rule.ExpectedResult {
			flags = append(flags, cv.Key)
		}
	}
	return flags
}
