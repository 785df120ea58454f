package domain

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// RetirementSummary is the GMP and tranche detail common to V1 and V2 retirement payloads.
type RetirementSummary struct {
	TotalGMP     decimal.Decimal  `json:"totalGMP"`
	GMPInPayment bool             `json:"gmpInPayment"`
	Pre88GMP     decimal.Decimal  `json:"pre88GMP"`
	Post88GMP    decimal.Decimal  `json:"post88GMP"`
	Tranches     []PensionTranche `json:"pensionTranches"`
}

// PensionTranche is one slice of a pension with its own increase basis.
type PensionTranche struct {
	TrancheTypeCode string `json:"trancheTypeCode"`
	Value           string `json:"value"`
}

// GMPFlags returns the guaranteed minimum pension wording flags for the summary.
func (r *RetirementSummary) GMPFlags() []string {
	var flags []string
	if r.TotalGMP.IsPositive() {
		flags = append(flags, "GMP")
	}
	if r.GMPInPayment {
		flags = append(flags, "GMPINPAY")
	}
	if r.Post88GMP.IsPositive() {
		flags = append(flags, "GMPPOST88")
	}
	if r.Pre88GMP.IsPositive() {
		flags = append(flags, "GMPPRE88")
	}
	return flags
}

// TrancheFlags returns one "tranche_{type}_{value}" flag per tranche carrying both parts.
func (r *RetirementSummary) TrancheFlags() []string {
	var flags []string
	for _, t := range r.Tranches {
		if t.TrancheTypeCode == "" || t.Value == "" {
			continue
		}
		flags = append(flags, fmt.Sprintf("tranche_%s_%s", t.TrancheTypeCode, t.Value))
	}
	return flags
}

// ParseRetirementV1 decodes the legacy retirement payload, which is the summary itself.
func ParseRetirementV1(raw string) (*RetirementSummary, error) {
	var summary RetirementSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("failed to decode retirement v1 payload: %w", err)
	}
	return &summary, nil
}

// ParseRetirementV2 decodes the V2 retirement payload, which nests the summary under "retirement".
func ParseRetirementV2(raw string) (*RetirementSummary, error) {
	var envelope struct {
		Retirement RetirementSummary `json:"retirement"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode retirement v2 payload: %w", err)
	}
	return &envelope.Retirement, nil
}

// QuoteOption is one retirement option within the V2 quotes payload.
type QuoteOption struct {
	TotalLumpSum                 decimal.Decimal `json:"totalLumpSum"`
	MaximumPermittedTotalLumpSum decimal.Decimal `json:"maximumPermittedTotalLumpSum"`
	TotalPension                 decimal.Decimal `json:"totalPension"`
}

// RetirementQuotes is the V2 quotes payload keyed by quote name.
type RetirementQuotes struct {
	Options map[string]QuoteOption `json:"options"`
}

// ParseRetirementQuotes decodes the V2 quotes payload.
func ParseRetirementQuotes(raw string) (*RetirementQuotes, error) {
	var quotes RetirementQuotes
	if err := json.Unmarshal([]byte(raw), &quotes); err != nil {
		return nil, fmt.Errorf("failed to decode retirement quotes: %w", err)
	}
	return &quotes, nil
}

// LumpSumSelection compares the lump sum a member asked for against the scheme maximum.
type LumpSumSelection struct {
	QuoteName            string
	RequestedLumpSum     decimal.Decimal
	MaximumPermittedLump decimal.Decimal
}

// IsLessThanMaximum reports whether the requested lump sum is strictly below the maximum permitted.
func (s LumpSumSelection) IsLessThanMaximum() bool {
	return s.RequestedLumpSum.LessThan(s.MaximumPermittedLump)
}

// GuaranteedQuote is a protected retirement quote issued by the calculation API.
type GuaranteedQuote struct {
	EffectiveDate time.Time `json:"effectiveDate"`
	ExpiryDate    time.Time `json:"expiryDate"`
	Status        string    `json:"status"`
}

// IsExpired reports whether the quote's protection has lapsed.
func (q GuaranteedQuote) IsExpired(now time.Time) bool {
	return !q.ExpiryDate.After(now)
}

// RetirementCalculationResult is a successful calculation API response.
type RetirementCalculationResult struct {
	EventType      string
	RetirementJSON string
	QuotesJSON     string
	EffectiveDate  *time.Time
}

// HasNoFigures reports whether the API answered but produced no retirement figures.
func (r *RetirementCalculationResult) HasNoFigures() bool {
	return r.EventType == CalculationStatusNoFigures
}
