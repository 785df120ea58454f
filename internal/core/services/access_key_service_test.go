package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
	"github.com/SscSPs/mdp_service/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// wordingFlagMethods lists the flag service methods in access key order with their arity.
var wordingFlagMethods = []struct {
	name  string
	arity int
}{
	{"GetRetirementFlags", 3},
	{"GetSchemeFlags", 1},
	{"GetCategoryFlags", 1},
	{"GetIfaReferralFlags", 2},
	{"GetHbsFlags", 2},
	{"GetLinkedMemberFlags", 4},
	{"GetPayTimelineWordingFlags", 2},
	{"GetCalcApiDatesAgesEndpointWordingFlags", 1},
	{"GetTransferFlags", 2},
	{"GetGenericJourneysFlags", 2},
	{"GetQuoteSelectionFlags", 3},
	{"GetRetirementOrTransferCasesFlags", 2},
	{"GetDeathCasesWordingFlags", 2},
	{"GetBankAccountWordingFlags", 2},
	{"GetNmpaFlags", 1},
	{"GetWordingsForWebRules", 4},
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = mock.Anything
	}
	return args
}

type AccessKeyServiceTestSuite struct {
	suite.Suite
	retirementData *MockRetirementDataService
	wordingFlags   *MockWordingFlagsService
	calcRepo       *MockCalculationRepository
	transferRepo   *MockTransferCalculationRepository
	calcClient     *MockCalculationsClient
	investment     *MockInvestmentClient
	keyCache       *MockAccessKeyCache
	calcCache      *MockCalculationsCache
	memberLock     *MockMemberLock
	service        portssvc.AccessKeySvcFacade
}

func (suite *AccessKeyServiceTestSuite) SetupTest() {
	suite.retirementData = new(MockRetirementDataService)
	suite.wordingFlags = new(MockWordingFlagsService)
	suite.calcRepo = new(MockCalculationRepository)
	suite.transferRepo = new(MockTransferCalculationRepository)
	suite.calcClient = new(MockCalculationsClient)
	suite.investment = new(MockInvestmentClient)
	suite.keyCache = new(MockAccessKeyCache)
	suite.calcCache = new(MockCalculationsCache)
	suite.memberLock = new(MockMemberLock)
	suite.service = services.NewAccessKeyService(
		suite.retirementData,
		suite.wordingFlags,
		suite.calcRepo,
		suite.transferRepo,
		suite.calcClient,
		services.WithAccessKeyClock(testClock),
		services.WithInvestmentClient(suite.investment),
		services.WithAccessKeyCache(suite.keyCache),
		services.WithCalculationsCache(suite.calcCache),
		services.WithMemberLock(suite.memberLock),
	)
}

// stubWordingFlags makes every flag method return the named flags, or nothing when absent.
func (suite *AccessKeyServiceTestSuite) stubWordingFlags(flags map[string][]string) {
	for _, method := range wordingFlagMethods {
		call := suite.wordingFlags.On(method.name, anyArgs(method.arity)...)
		if f, ok := flags[method.name]; ok {
			call.Return(f)
		} else {
			call.Return(nil)
		}
	}
}

func (suite *AccessKeyServiceTestSuite) request(member *domain.Member) domain.AccessKeyRequest {
	return domain.AccessKeyRequest{
		Member:                  member,
		UserID:                  "user-1",
		TenantURL:               "https://rbs.example.com",
		PreRetirementAgePeriod:  5,
		NewlyRetiredRange:       6,
		GuaranteedQuotesEnabled: true,
	}
}

func (suite *AccessKeyServiceTestSuite) decode(raw string) *domain.AccessKey {
	key := suite.service.ParseJSONToAccessKey(raw)
	suite.Require().NotNil(key)
	return key
}

func (suite *AccessKeyServiceTestSuite) TestCalculateKey_BasicMode() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)
	req := suite.request(member)
	req.UseBasicMode = true
	req.IsWebChatEnabled = true

	suite.wordingFlags.On("GetLinkedMemberFlags", ctx, member, false, (*domain.SingleAuthClaim)(nil)).Return([]string{"HASLINKEDMEMBER"}).Once()
	suite.wordingFlags.On("GetWordingsForWebRules", ctx, member, "user-1", []domain.ClassifierValue(nil)).Return([]string{"webRule"}).Once()
	suite.wordingFlags.On("GetSchemeFlags", member).Return([]string{"scheme_0001"}).Once()
	suite.wordingFlags.On("GetCategoryFlags", member).Return([]string{"category_1001"}).Once()

	raw, err := suite.service.CalculateKey(ctx, req)

	suite.Require().NoError(err)
	key := suite.decode(raw)
	suite.Equal([]string{"HASLINKEDMEMBER", "webRule", "scheme_0001", "category_1001"}, key.WordingFlags)
	suite.False(key.IsCalculationSuccessful)
	suite.Equal(domain.CalcNotAccessible, key.DbCalculationStatus)
	suite.Equal(domain.DcLifeStageUndefined, key.DcLifeStage)
	suite.Equal("38Y1M", key.CurrentAge)
	suite.True(key.IsWebChatEnabled)
	suite.wordingFlags.AssertExpectations(suite.T())
	suite.calcClient.AssertNotCalled(suite.T(), "RetirementDatesAges", mock.Anything, mock.Anything, mock.Anything)
	suite.retirementData.AssertNotCalled(suite.T(), "GetExistingRetirementJourneyType", mock.Anything, mock.Anything)
}

func (suite *AccessKeyServiceTestSuite) TestCalculateKey_NoCalculationAndDatesAgesFailing() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)

	suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(nil, errors.New("timeout")).Once()
	suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyNone, nil).Once()
	suite.retirementData.On("GetRetirementApplicationStatus", member, mock.Anything, 5, 6).Return(domain.RAUndefined).Once()
	suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
	suite.investment.On("GetInternalBalance", ctx, testBusinessGroup, testReferenceNumber, "0001", "1001").Return(nil, nil).Once()
	suite.stubWordingFlags(map[string][]string{
		"GetRetirementFlags":                      {"RetirementFlag"},
		"GetSchemeFlags":                          {"SchemeFlag"},
		"GetCategoryFlags":                        {"CategoryFlag"},
		"GetIfaReferralFlags":                     {"IfaReferralFlag"},
		"GetHbsFlags":                             {"HbsFlag"},
		"GetLinkedMemberFlags":                    {"LinkedMemberFlag"},
		"GetPayTimelineWordingFlags":              {"PayTimelineWordingFlag"},
		"GetCalcApiDatesAgesEndpointWordingFlags": {"CalcApiDatesAgesFlag"},
		"GetTransferFlags":                        {"TransferWordingFlag"},
		"GetGenericJourneysFlags":                 {"GenericJourneysFlag"},
		"GetQuoteSelectionFlags":                  {"QuoteSelectionFlag"},
	})

	raw, err := suite.service.CalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	key := suite.decode(raw)
	suite.Equal([]string{
		"RetirementFlag", "SchemeFlag", "CategoryFlag", "IfaReferralFlag", "HbsFlag", "LinkedMemberFlag",
		"PayTimelineWordingFlag", "CalcApiDatesAgesFlag", "TransferWordingFlag", "GenericJourneysFlag", "QuoteSelectionFlag",
	}, key.WordingFlags)
	suite.False(key.IsCalculationSuccessful)
	suite.Equal("38Y1M", key.CurrentAge)
	suite.Equal(domain.CalcNotAccessible, key.DbCalculationStatus)
	suite.Equal(domain.DcLifeStageUndefined, key.DcLifeStage)
	suite.Equal(string(domain.LifeStageUndefined), key.LifeStage)
	suite.Equal(string(domain.TAUndefined), key.TransferApplicationStatus)
	suite.False(key.HasProtectedQuote)
	suite.retirementData.AssertNotCalled(suite.T(), "GetNewRetirementCalculation", mock.Anything, mock.Anything, mock.Anything)
	suite.calcClient.AssertNotCalled(suite.T(), "GetGuaranteedQuotes", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccessKeyServiceTestSuite) TestCalculateKey_ProtectedQuotes() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)
	effective := testNow.AddDate(0, 3, 0)
	calc := successfulCalculation(effective)
	datesAges := testDatesAges(suite.T())
	quotes := []domain.GuaranteedQuote{
		{EffectiveDate: effective.AddDate(0, -1, 0), ExpiryDate: testNow.AddDate(0, 1, 0)},
		{EffectiveDate: effective.AddDate(0, 1, 0), ExpiryDate: testNow.AddDate(0, 2, 0)},
		{EffectiveDate: effective, ExpiryDate: testNow.AddDate(0, 0, -1)},
	}

	suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(datesAges, nil).Once()
	suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyNone, nil).Once()
	suite.retirementData.On("GetNewRetirementCalculation", ctx, datesAges, member).Return(calc, nil).Once()
	suite.retirementData.On("GetRetirementApplicationStatus", member, domain.OutcomeOf(calc, nil), 5, 6).Return(domain.RANotEligibleToRetire).Once()
	suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
	suite.calcClient.On("GetGuaranteedQuotes", ctx, testBusinessGroup, testReferenceNumber).Return(quotes, nil).Once()
	suite.investment.On("GetInternalBalance", ctx, testBusinessGroup, testReferenceNumber, "0001", "1001").Return(nil, nil).Once()
	suite.stubWordingFlags(map[string][]string{"GetSchemeFlags": {"scheme_0001"}})

	raw, err := suite.service.CalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	key := suite.decode(raw)
	suite.Equal([]string{"scheme_0001", services.FlagSelectedDateProtected}, key.WordingFlags)
	suite.True(key.HasProtectedQuote)
	suite.Equal(2, key.NumberOfProtectedQuotes)
	suite.True(key.IsCalculationSuccessful)
	suite.Equal(domain.CalcAccessible, key.DbCalculationStatus)
	suite.Equal(string(domain.LifeStageNotEligibleToRetire), key.LifeStage)
	suite.Equal(string(domain.RANotEligibleToRetire), key.RetirementApplicationStatus)
	suite.retirementData.AssertExpectations(suite.T())
}

func (suite *AccessKeyServiceTestSuite) TestCalculateKey_OnlyExpiredQuotesAreNotProtected() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)
	effective := testNow.AddDate(0, 3, 0)
	calc := successfulCalculation(effective)
	datesAges := testDatesAges(suite.T())
	quotes := []domain.GuaranteedQuote{
		{EffectiveDate: effective, ExpiryDate: testNow.AddDate(0, 0, -1)},
		{EffectiveDate: effective, ExpiryDate: testNow},
	}

	suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(datesAges, nil).Once()
	suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyNone, nil).Once()
	suite.retirementData.On("GetNewRetirementCalculation", ctx, datesAges, member).Return(calc, nil).Once()
	suite.retirementData.On("GetRetirementApplicationStatus", member, domain.OutcomeOf(calc, nil), 5, 6).Return(domain.RANotEligibleToRetire).Once()
	suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
	suite.calcClient.On("GetGuaranteedQuotes", ctx, testBusinessGroup, testReferenceNumber).Return(quotes, nil).Once()
	suite.investment.On("GetInternalBalance", ctx, testBusinessGroup, testReferenceNumber, "0001", "1001").Return(nil, nil).Once()
	suite.stubWordingFlags(map[string][]string{"GetSchemeFlags": {"scheme_0001"}})

	raw, err := suite.service.CalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	key := suite.decode(raw)
	suite.Equal([]string{"scheme_0001"}, key.WordingFlags)
	suite.False(key.HasProtectedQuote)
	suite.Zero(key.NumberOfProtectedQuotes)
}

func (suite *AccessKeyServiceTestSuite) TestCalculateKey_HasDCAssets() {
	tests := []struct {
		name    string
		scheme  domain.SchemeType
		balance *domain.InternalBalance
		want    bool
	}{
		{name: "DB member with positive balance", scheme: domain.SchemeDB, balance: &domain.InternalBalance{TotalValue: decimal.NewFromInt(223675)}, want: true},
		{name: "DB member with zero balance", scheme: domain.SchemeDB, balance: &domain.InternalBalance{TotalValue: decimal.Zero}, want: false},
		{name: "DB member with negative balance", scheme: domain.SchemeDB, balance: &domain.InternalBalance{TotalValue: decimal.NewFromInt(-5)}, want: false},
		{name: "DB member without balance", scheme: domain.SchemeDB, balance: nil, want: false},
		{name: "DC member never has DC assets flag", scheme: domain.SchemeDC, balance: &domain.InternalBalance{TotalValue: decimal.NewFromInt(223675)}, want: false},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			ctx := context.Background()
			member := testMember(tt.scheme, domain.MemberActive)

			suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(nil, errors.New("down")).Once()
			suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyNone, nil).Once()
			suite.retirementData.On("GetRetirementApplicationStatus", member, mock.Anything, 5, 6).Return(domain.RAUndefined).Once()
			suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
			if tt.scheme == domain.SchemeDB {
				if tt.balance == nil {
					suite.investment.On("GetInternalBalance", ctx, testBusinessGroup, testReferenceNumber, "0001", "1001").Return(nil, nil).Once()
				} else {
					suite.investment.On("GetInternalBalance", ctx, testBusinessGroup, testReferenceNumber, "0001", "1001").Return(tt.balance, nil).Once()
				}
			}
			suite.stubWordingFlags(nil)

			raw, err := suite.service.CalculateKey(ctx, suite.request(member))

			suite.Require().NoError(err)
			key := suite.decode(raw)
			if tt.want {
				suite.Equal([]string{services.FlagHasDCAssets}, key.WordingFlags)
			} else {
				suite.NotContains(key.WordingFlags, services.FlagHasDCAssets)
			}
			if tt.scheme == domain.SchemeDC {
				suite.investment.AssertNotCalled(suite.T(), "GetInternalBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func (suite *AccessKeyServiceTestSuite) TestCalculateKey_DeduplicatesAndDropsBlankFlags() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)

	suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(nil, errors.New("down")).Once()
	suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyNone, nil).Once()
	suite.retirementData.On("GetRetirementApplicationStatus", member, mock.Anything, 5, 6).Return(domain.RAUndefined).Once()
	suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
	suite.investment.On("GetInternalBalance", ctx, testBusinessGroup, testReferenceNumber, "0001", "1001").Return(nil, nil).Once()
	suite.stubWordingFlags(map[string][]string{
		"GetSchemeFlags":          {"scheme_0001"},
		"GetGenericJourneysFlags": {"transfer", " ", "Started", "transfer-Started"},
		"GetQuoteSelectionFlags":  {"transfer", ""},
	})

	raw, err := suite.service.CalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	suite.Equal([]string{"scheme_0001", "transfer", "Started", "transfer-Started"}, suite.decode(raw).WordingFlags)
}

func (suite *AccessKeyServiceTestSuite) TestCalculateKey_DcMemberWithJourney() {
	ctx := context.Background()
	member := testMember(domain.SchemeDC, domain.MemberActive)
	member.DateOfBirth = timePtr(testNow.AddDate(-58, 0, 0))
	calc := successfulCalculation(testNow.AddDate(0, 6, 0))
	datesAges := testDatesAges(suite.T())
	transfer := &domain.TransferCalculation{BusinessGroup: testBusinessGroup, ReferenceNumber: testReferenceNumber, Status: domain.TAStarted}

	suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(datesAges, nil).Once()
	suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyDcRetirementApplication, nil).Once()
	suite.retirementData.On("GetRetirementCalculationWithJourney", ctx, datesAges, testReferenceNumber, testBusinessGroup).Return(calc, nil).Once()
	suite.retirementData.On("GetRetirementApplicationStatus", member, domain.OutcomeOf(calc, nil), 5, 6).Return(domain.RAStarted).Once()
	suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(transfer, nil).Once()
	suite.calcClient.On("GetGuaranteedQuotes", ctx, testBusinessGroup, testReferenceNumber).Return([]domain.GuaranteedQuote{}, nil).Once()
	suite.stubWordingFlags(map[string][]string{
		"GetGenericJourneysFlags": {"dcretirementapplication", "Started", "dcretirementapplication-Started"},
	})

	raw, err := suite.service.CalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	key := suite.decode(raw)
	suite.Equal("started", key.DcLifeStage)
	suite.Equal(string(domain.LifeStageEligibleToRetire), key.LifeStage)
	suite.Equal(string(domain.RAStarted), key.RetirementApplicationStatus)
	suite.Equal(string(domain.TAStarted), key.TransferApplicationStatus)
	suite.False(key.HasProtectedQuote)
	suite.retirementData.AssertNotCalled(suite.T(), "GetNewRetirementCalculation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccessKeyServiceTestSuite) TestGetOrCalculateKey_ServesCachedKey() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)
	cached := `{"tenantUrl":"cached"}`

	suite.keyCache.On("Get", ctx, testBusinessGroup, testReferenceNumber).Return(cached, true, nil).Once()

	raw, err := suite.service.GetOrCalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	suite.Equal(cached, raw)
	suite.calcClient.AssertNotCalled(suite.T(), "RetirementDatesAges", mock.Anything, mock.Anything, mock.Anything)
	suite.keyCache.AssertNotCalled(suite.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccessKeyServiceTestSuite) TestGetOrCalculateKey_CachesComputedKey() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)

	suite.keyCache.On("Get", ctx, testBusinessGroup, testReferenceNumber).Return("", false, nil).Once()
	suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(nil, errors.New("down")).Once()
	suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyNone, nil).Once()
	suite.retirementData.On("GetRetirementApplicationStatus", member, mock.Anything, 5, 6).Return(domain.RAUndefined).Once()
	suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
	suite.investment.On("GetInternalBalance", ctx, testBusinessGroup, testReferenceNumber, "0001", "1001").Return(nil, nil).Once()
	suite.stubWordingFlags(nil)
	suite.keyCache.On("Set", ctx, testBusinessGroup, testReferenceNumber, mock.AnythingOfType("string")).Return(nil).Once()

	raw, err := suite.service.GetOrCalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	suite.NotEmpty(raw)
	suite.keyCache.AssertExpectations(suite.T())
}

func (suite *AccessKeyServiceTestSuite) TestRecalculateKey_DcMemberRefreshesDatesAges() {
	ctx := context.Background()
	member := testMember(domain.SchemeDC, domain.MemberActive)
	existing := successfulCalculation(testNow)
	datesAges := testDatesAges(suite.T())
	released := false
	release := func(context.Context) error {
		released = true
		return nil
	}

	suite.memberLock.On("Acquire", ctx, testBusinessGroup, testReferenceNumber).Return(release, nil).Once()
	suite.keyCache.On("Remove", ctx, testBusinessGroup, testReferenceNumber).Return(nil).Once()
	suite.calcCache.On("Clear", ctx, testBusinessGroup, testReferenceNumber).Return(nil).Once()
	suite.calcClient.On("RetirementDatesAges", ctx, testBusinessGroup, testReferenceNumber).Return(datesAges, nil).Twice()
	suite.calcRepo.On("FindCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(existing, nil).Once()
	suite.retirementData.On("UpdateRetirementDatesAges", ctx, existing, datesAges).Return(nil).Once()
	suite.retirementData.On("GetExistingRetirementJourneyType", ctx, member).Return(domain.ExistingJourneyNone, nil).Once()
	suite.retirementData.On("GetNewRetirementCalculation", ctx, datesAges, member).Return(existing, nil).Once()
	suite.retirementData.On("GetRetirementApplicationStatus", member, mock.Anything, 5, 6).Return(domain.RAEligibleToStart).Once()
	suite.transferRepo.On("FindTransferCalculation", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
	suite.calcClient.On("GetGuaranteedQuotes", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
	suite.stubWordingFlags(nil)
	suite.keyCache.On("Set", ctx, testBusinessGroup, testReferenceNumber, mock.AnythingOfType("string")).Return(nil).Once()

	raw, err := suite.service.RecalculateKey(ctx, suite.request(member))

	suite.Require().NoError(err)
	suite.NotEmpty(raw)
	suite.True(released)
	suite.retirementData.AssertExpectations(suite.T())
	suite.keyCache.AssertExpectations(suite.T())
	suite.calcCache.AssertExpectations(suite.T())
}

func (suite *AccessKeyServiceTestSuite) TestRecalculateKey_MemberLocked() {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)

	suite.memberLock.On("Acquire", ctx, testBusinessGroup, testReferenceNumber).Return(nil, apperrors.ErrMemberLocked).Once()

	raw, err := suite.service.RecalculateKey(ctx, suite.request(member))

	suite.Require().Error(err)
	suite.Empty(raw)
	suite.ErrorIs(err, apperrors.ErrMemberLocked)
	suite.keyCache.AssertNotCalled(suite.T(), "Remove", mock.Anything, mock.Anything, mock.Anything)
	suite.calcCache.AssertNotCalled(suite.T(), "Clear", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccessKeyServiceTestSuite) TestGetDcJourneyStatus_SubmittedWins() {
	status := suite.service.GetDcJourneyStatus([]string{
		"dcretirementapplication-started",
		"dcretirementapplication-Submitted",
		"dcexploreoptions-Started",
	})

	suite.Require().NotNil(status)
	suite.Equal(domain.DcJourneySubmitted, *status)
	suite.Nil(suite.service.GetDcJourneyStatus(nil))
}

func (suite *AccessKeyServiceTestSuite) TestParseJSONToAccessKey() {
	key := &domain.AccessKey{TenantURL: "https://rbs.example.com", WordingFlags: []string{"a"}, NumberOfProtectedQuotes: 1}
	raw, err := key.JSON()
	suite.Require().NoError(err)

	suite.Equal(key, suite.service.ParseJSONToAccessKey(raw))
	suite.Nil(suite.service.ParseJSONToAccessKey(""))
	suite.Nil(suite.service.ParseJSONToAccessKey("{not json"))
}

func TestAccessKeyService(t *testing.T) {
	suite.Run(t, new(AccessKeyServiceTestSuite))
}
