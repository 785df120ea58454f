package clients

import (
	"context"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// CalculationsClient calls the external retirement calculation API.
type CalculationsClient interface {
	RetirementDatesAges(ctx context.Context, businessGroup, referenceNumber string) (*domain.RetirementDatesAges, error)

	// RetirementCalculationV2 runs a retirement calculation for the given effective date. A response
	// without figures is a result tagged noFigures, not an error.
	RetirementCalculationV2(ctx context.Context, businessGroup, referenceNumber string, effectiveDate time.Time) (*domain.RetirementCalculationResult, error)

	GetGuaranteedQuotes(ctx context.Context, businessGroup, referenceNumber string) ([]domain.GuaranteedQuote, error)
}

// CasesClient reads cases from the case management API.
type CasesClient interface {
	GetRetirementOrTransferCases(ctx context.Context, businessGroup, referenceNumber string) ([]domain.CaseSummary, error)
	GetDeathCases(ctx context.Context, businessGroup, referenceNumber string) ([]domain.CaseSummary, error)
}

// InvestmentServiceClient reads DC fund balances.
type InvestmentServiceClient interface {
	// GetInternalBalance returns nil when the member holds no DC funds.
	GetInternalBalance(ctx context.Context, businessGroup, referenceNumber, schemeCode, category string) (*domain.InternalBalance, error)
}

// EpaServiceClient evaluates web rules.
type EpaServiceClient interface {
	// GetWebRuleResult returns nil when the rule engine has no verdict.
	GetWebRuleResult(ctx context.Context, businessGroup, referenceNumber, userID, ruleID string, useCache bool) (*domain.WebRuleResult, error)
}

// SingleAuthService resolves records linked through single sign-on.
type SingleAuthService interface {
	GetLinkedRecords(ctx context.Context, claim domain.SingleAuthClaim, businessGroup string) ([]domain.LinkedRecord, error)
}

// BankService reads the member's bank account.
type BankService interface {
	FetchBankAccount(ctx context.Context, businessGroup, referenceNumber string) (*domain.BankAccount, error)
}
