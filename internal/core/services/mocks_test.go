package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock JourneyRepository ---
type MockJourneyRepository struct {
	mock.Mock
}

var _ portsrepo.JourneyRepositoryFacade = (*MockJourneyRepository)(nil)

func (m *MockJourneyRepository) FindJourney(ctx context.Context, businessGroup, referenceNumber, journeyType string) (*domain.Journey, error) {
	args := m.Called(ctx, businessGroup, referenceNumber, journeyType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journey), args.Error(1)
}

func (m *MockJourneyRepository) FindAllJourneys(ctx context.Context, businessGroup, referenceNumber string) ([]domain.Journey, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journey), args.Error(1)
}

func (m *MockJourneyRepository) CreateJourney(ctx context.Context, journey *domain.Journey) error {
	args := m.Called(ctx, journey)
	return args.Error(0)
}

func (m *MockJourneyRepository) UpdateJourney(ctx context.Context, journey *domain.Journey) error {
	args := m.Called(ctx, journey)
	return args.Error(0)
}

func (m *MockJourneyRepository) RemoveJourney(ctx context.Context, journey *domain.Journey) error {
	args := m.Called(ctx, journey)
	return args.Error(0)
}

// --- Mock CalculationRepository ---
type MockCalculationRepository struct {
	mock.Mock
}

var _ portsrepo.CalculationRepositoryFacade = (*MockCalculationRepository)(nil)

func (m *MockCalculationRepository) FindCalculation(ctx context.Context, businessGroup, referenceNumber string) (*domain.Calculation, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockCalculationRepository) CreateCalculation(ctx context.Context, calculation *domain.Calculation) error {
	args := m.Called(ctx, calculation)
	return args.Error(0)
}

func (m *MockCalculationRepository) UpdateCalculation(ctx context.Context, calculation *domain.Calculation) error {
	args := m.Called(ctx, calculation)
	return args.Error(0)
}

func (m *MockCalculationRepository) RemoveCalculation(ctx context.Context, calculation *domain.Calculation) error {
	args := m.Called(ctx, calculation)
	return args.Error(0)
}

// --- Mock TransferCalculationRepository ---
type MockTransferCalculationRepository struct {
	mock.Mock
}

var _ portsrepo.TransferCalculationRepositoryFacade = (*MockTransferCalculationRepository)(nil)

func (m *MockTransferCalculationRepository) FindTransferCalculation(ctx context.Context, businessGroup, referenceNumber string) (*domain.TransferCalculation, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferCalculation), args.Error(1)
}

func (m *MockTransferCalculationRepository) UpdateTransferCalculation(ctx context.Context, calculation *domain.TransferCalculation) error {
	args := m.Called(ctx, calculation)
	return args.Error(0)
}

// --- Mock QuoteSelectionJourneyRepository ---
type MockQuoteSelectionRepository struct {
	mock.Mock
}

var _ portsrepo.QuoteSelectionJourneyReader = (*MockQuoteSelectionRepository)(nil)

func (m *MockQuoteSelectionRepository) FindQuoteSelectionJourney(ctx context.Context, businessGroup, referenceNumber string) (*domain.QuoteSelectionJourney, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteSelectionJourney), args.Error(1)
}

// --- Mock tenant repositories ---
type MockTenantSettingsRepository struct {
	mock.Mock
}

var _ portsrepo.TenantSettingsReader = (*MockTenantSettingsRepository)(nil)

func (m *MockTenantSettingsRepository) FindTenantSettings(ctx context.Context, businessGroup string) (*domain.TenantSettings, error) {
	args := m.Called(ctx, businessGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantSettings), args.Error(1)
}

type MockPayTimelineRepository struct {
	mock.Mock
}

var _ portsrepo.PayTimelineReader = (*MockPayTimelineRepository)(nil)

func (m *MockPayTimelineRepository) FindPayTimelines(ctx context.Context, businessGroup string) ([]domain.PayTimeline, error) {
	args := m.Called(ctx, businessGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayTimeline), args.Error(1)
}

type MockIfaReferralRepository struct {
	mock.Mock
}

var _ portsrepo.IfaReferralReader = (*MockIfaReferralRepository)(nil)

func (m *MockIfaReferralRepository) HasActiveReferral(ctx context.Context, businessGroup, referenceNumber string, since time.Time) (bool, error) {
	args := m.Called(ctx, businessGroup, referenceNumber, since)
	return args.Bool(0), args.Error(1)
}

// --- Mock MemberRepository ---
type MockMemberRepository struct {
	mock.Mock
}

var _ portsrepo.MemberRepositoryFacade = (*MockMemberRepository)(nil)

func (m *MockMemberRepository) FindMember(ctx context.Context, businessGroup, referenceNumber string) (*domain.Member, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) RecordJourneySubmission(ctx context.Context, submission domain.JourneySubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

// --- Mock transactions ---
type MockUnitOfWork struct {
	mock.Mock
}

var _ portsrepo.UnitOfWork = (*MockUnitOfWork)(nil)

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockDualTransaction struct {
	mock.Mock
}

var _ portsrepo.DualTransaction = (*MockDualTransaction)(nil)

func (m *MockDualTransaction) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDualTransaction) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockDualTransactionManager struct {
	mock.Mock
}

var _ portsrepo.DualTransactionManager = (*MockDualTransactionManager)(nil)

func (m *MockDualTransactionManager) Begin(ctx context.Context) (context.Context, portsrepo.DualTransaction, error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return ctx, nil, args.Error(2)
	}
	return args.Get(0).(context.Context), args.Get(1).(portsrepo.DualTransaction), args.Error(2)
}

// --- Mock clients ---
type MockCalculationsClient struct {
	mock.Mock
}

var _ portsclients.CalculationsClient = (*MockCalculationsClient)(nil)

func (m *MockCalculationsClient) RetirementDatesAges(ctx context.Context, businessGroup, referenceNumber string) (*domain.RetirementDatesAges, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetirementDatesAges), args.Error(1)
}

func (m *MockCalculationsClient) RetirementCalculationV2(ctx context.Context, businessGroup, referenceNumber string, effectiveDate time.Time) (*domain.RetirementCalculationResult, error) {
	args := m.Called(ctx, businessGroup, referenceNumber, effectiveDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetirementCalculationResult), args.Error(1)
}

func (m *MockCalculationsClient) GetGuaranteedQuotes(ctx context.Context, businessGroup, referenceNumber string) ([]domain.GuaranteedQuote, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuaranteedQuote), args.Error(1)
}

type MockCasesClient struct {
	mock.Mock
}

var _ portsclients.CasesClient = (*MockCasesClient)(nil)

func (m *MockCasesClient) GetRetirementOrTransferCases(ctx context.Context, businessGroup, referenceNumber string) ([]domain.CaseSummary, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CaseSummary), args.Error(1)
}

func (m *MockCasesClient) GetDeathCases(ctx context.Context, businessGroup, referenceNumber string) ([]domain.CaseSummary, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CaseSummary), args.Error(1)
}

type MockInvestmentClient struct {
	mock.Mock
}

var _ portsclients.InvestmentServiceClient = (*MockInvestmentClient)(nil)

func (m *MockInvestmentClient) GetInternalBalance(ctx context.Context, businessGroup, referenceNumber, schemeCode, category string) (*domain.InternalBalance, error) {
	args := m.Called(ctx, businessGroup, referenceNumber, schemeCode, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InternalBalance), args.Error(1)
}

type MockEpaClient struct {
	mock.Mock
}

var _ portsclients.EpaServiceClient = (*MockEpaClient)(nil)

func (m *MockEpaClient) GetWebRuleResult(ctx context.Context, businessGroup, referenceNumber, userID, ruleID string, useCache bool) (*domain.WebRuleResult, error) {
	args := m.Called(ctx, businessGroup, referenceNumber, userID, ruleID, useCache)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebRuleResult), args.Error(1)
}

type MockSingleAuthService struct {
	mock.Mock
}

var _ portsclients.SingleAuthService = (*MockSingleAuthService)(nil)

func (m *MockSingleAuthService) GetLinkedRecords(ctx context.Context, claim domain.SingleAuthClaim, businessGroup string) ([]domain.LinkedRecord, error) {
	args := m.Called(ctx, claim, businessGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LinkedRecord), args.Error(1)
}

type MockBankService struct {
	mock.Mock
}

var _ portsclients.BankService = (*MockBankService)(nil)

func (m *MockBankService) FetchBankAccount(ctx context.Context, businessGroup, referenceNumber string) (*domain.BankAccount, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

// --- Mock caches ---
type MockAccessKeyCache struct {
	mock.Mock
}

var _ portsclients.AccessKeyCache = (*MockAccessKeyCache)(nil)

func (m *MockAccessKeyCache) Get(ctx context.Context, businessGroup, referenceNumber string) (string, bool, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockAccessKeyCache) Set(ctx context.Context, businessGroup, referenceNumber, accessKey string) error {
	args := m.Called(ctx, businessGroup, referenceNumber, accessKey)
	return args.Error(0)
}

func (m *MockAccessKeyCache) Remove(ctx context.Context, businessGroup, referenceNumber string) error {
	args := m.Called(ctx, businessGroup, referenceNumber)
	return args.Error(0)
}

type MockCalculationsCache struct {
	mock.Mock
}

var _ portsclients.CalculationsCache = (*MockCalculationsCache)(nil)

func (m *MockCalculationsCache) Clear(ctx context.Context, businessGroup, referenceNumber string) error {
	args := m.Called(ctx, businessGroup, referenceNumber)
	return args.Error(0)
}

type MockMemberLock struct {
	mock.Mock
}

var _ portsclients.MemberLock = (*MockMemberLock)(nil)

func (m *MockMemberLock) Acquire(ctx context.Context, businessGroup, referenceNumber string) (func(context.Context) error, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

// --- Mock services ---
type MockRetirementDataService struct {
	mock.Mock
}

var _ portssvc.RetirementAccessKeyDataSvc = (*MockRetirementDataService)(nil)

func (m *MockRetirementDataService) GetNewRetirementCalculation(ctx context.Context, datesAges *domain.RetirementDatesAges, member *domain.Member) (*domain.Calculation, error) {
	args := m.Called(ctx, datesAges, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockRetirementDataService) GetRetirementCalculationWithJourney(ctx context.Context, datesAges *domain.RetirementDatesAges, referenceNumber, businessGroup string) (*domain.Calculation, error) {
	args := m.Called(ctx, datesAges, referenceNumber, businessGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

func (m *MockRetirementDataService) GetExistingRetirementJourneyType(ctx context.Context, member *domain.Member) (domain.ExistingRetirementJourneyType, error) {
	args := m.Called(ctx, member)
	return args.Get(0).(domain.ExistingRetirementJourneyType), args.Error(1)
}

func (m *MockRetirementDataService) GetRetirementApplicationStatus(member *domain.Member, outcome domain.CalculationOutcome, preRetirementYears, newlyRetiredMonths int) domain.RetirementApplicationStatus {
	args := m.Called(member, outcome, preRetirementYears, newlyRetiredMonths)
	return args.Get(0).(domain.RetirementApplicationStatus)
}

func (m *MockRetirementDataService) UpdateRetirementDatesAges(ctx context.Context, calculation *domain.Calculation, datesAges *domain.RetirementDatesAges) error {
	args := m.Called(ctx, calculation, datesAges)
	return args.Error(0)
}

type MockWordingFlagsService struct {
	mock.Mock
}

var _ portssvc.AccessKeyWordingFlagsSvc = (*MockWordingFlagsService)(nil)

func flagsResult(args mock.Arguments) []string {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockWordingFlagsService) GetCalcApiDatesAgesEndpointWordingFlags(datesAges *domain.RetirementDatesAges) []string {
	return flagsResult(m.Called(datesAges))
}

func (m *MockWordingFlagsService) GetHbsFlags(member *domain.Member, datesAges *domain.RetirementDatesAges) []string {
	return flagsResult(m.Called(member, datesAges))
}

func (m *MockWordingFlagsService) GetSchemeFlags(member *domain.Member) []string {
	return flagsResult(m.Called(member))
}

func (m *MockWordingFlagsService) GetCategoryFlags(member *domain.Member) []string {
	return flagsResult(m.Called(member))
}

func (m *MockWordingFlagsService) GetIfaReferralFlags(ctx context.Context, member *domain.Member) []string {
	return flagsResult(m.Called(ctx, member))
}

func (m *MockWordingFlagsService) GetLinkedMemberFlags(ctx context.Context, member *domain.Member, useSingleAuth bool, claim *domain.SingleAuthClaim) []string {
	return flagsResult(m.Called(ctx, member, useSingleAuth, claim))
}

func (m *MockWordingFlagsService) GetPayTimelineWordingFlags(ctx context.Context, member *domain.Member) []string {
	return flagsResult(m.Called(ctx, member))
}

func (m *MockWordingFlagsService) GetRetirementFlags(ctx context.Context, outcome domain.CalculationOutcome, isSchemeDC bool) []string {
	return flagsResult(m.Called(ctx, outcome, isSchemeDC))
}

func (m *MockWordingFlagsService) GetTransferFlags(ctx context.Context, transfer *domain.TransferCalculation) []string {
	return flagsResult(m.Called(ctx, transfer))
}

func (m *MockWordingFlagsService) GetGenericJourneysFlags(ctx context.Context, member *domain.Member) []string {
	return flagsResult(m.Called(ctx, member))
}

func (m *MockWordingFlagsService) GetQuoteSelectionFlags(ctx context.Context, member *domain.Member, calculation *domain.Calculation) []string {
	return flagsResult(m.Called(ctx, member, calculation))
}

func (m *MockWordingFlagsService) GetRetirementOrTransferCasesFlags(ctx context.Context, member *domain.Member) []string {
	return flagsResult(m.Called(ctx, member))
}

func (m *MockWordingFlagsService) GetDeathCasesWordingFlags(ctx context.Context, member *domain.Member) []string {
	return flagsResult(m.Called(ctx, member))
}

func (m *MockWordingFlagsService) GetBankAccountWordingFlags(ctx context.Context, member *domain.Member) []string {
	return flagsResult(m.Called(ctx, member))
}

func (m *MockWordingFlagsService) GetNmpaFlags(member *domain.Member) []string {
	return flagsResult(m.Called(member))
}

func (m *MockWordingFlagsService) GetWordingsForWebRules(ctx context.Context, member *domain.Member, userID string, classifierValues []domain.ClassifierValue) []string {
	return flagsResult(m.Called(ctx, member, userID, classifierValues))
}

type MockQuoteSelectionService struct {
	mock.Mock
}

var _ portssvc.QuoteSelectionSvc = (*MockQuoteSelectionService)(nil)

func (m *MockQuoteSelectionService) GetSelectedQuoteName(ctx context.Context, businessGroup, referenceNumber string, calculation *domain.Calculation) (string, error) {
	args := m.Called(ctx, businessGroup, referenceNumber, calculation)
	return args.String(0), args.Error(1)
}

func (m *MockQuoteSelectionService) GetLumpSumSelection(ctx context.Context, calculation *domain.Calculation) (*domain.LumpSumSelection, error) {
	args := m.Called(ctx, calculation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LumpSumSelection), args.Error(1)
}
