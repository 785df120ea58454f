package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculation is the member's cached retirement calculation snapshot.
type Calculation struct {
	ID                      int64
	BusinessGroup           string
	ReferenceNumber         string
	RetirementDatesAgesJSON string
	RetirementJSON          string
	RetirementJSONV2        string
	QuotesJSONV2            string
	EffectiveRetirementDate time.Time
	EnteredLumpSum          *decimal.Decimal
	IsCalculationSuccessful *bool
	CalculationStatus       *string
	SelectedQuoteName       string
	CurrentDate             time.Time
	Journey                 *Journey
}

// NewCalculation creates an unattempted calculation for the member.
func NewCalculation(businessGroup, referenceNumber, datesAgesJSON string, effectiveDate, now time.Time) *Calculation {
	return &Calculation{
		BusinessGroup:           businessGroup,
		ReferenceNumber:         referenceNumber,
		RetirementDatesAgesJSON: datesAgesJSON,
		EffectiveRetirementDate: effectiveDate,
		CurrentDate:             now,
	}
}

// NewForbiddenCalculation records that the member may not run a retirement calculation.
func NewForbiddenCalculation(businessGroup, referenceNumber, datesAgesJSON string, now time.Time) *Calculation {
	c := NewCalculation(businessGroup, referenceNumber, datesAgesJSON, now, now)
	c.SetCalculationStatus(CalculationStatusForbidden)
	return c
}

// UpdateRetirementV2 stores a successful V2 calculation.
func (c *Calculation) UpdateRetirementV2(retirementJSON, quotesJSON string, isSuccessful bool, now time.Time) {
	c.RetirementJSONV2 = retirementJSON
	c.QuotesJSONV2 = quotesJSON
	c.IsCalculationSuccessful = &isSuccessful
	c.CalculationStatus = nil
	c.CurrentDate = now
}

// UpdateRetirementJSONV2 replaces the V2 retirement payload without touching the calculation outcome.
func (c *Calculation) UpdateRetirementJSONV2(retirementJSON string, now time.Time) {
	c.RetirementJSONV2 = retirementJSON
	c.CurrentDate = now
}

// UpdateEffectiveDate moves the retirement date the calculation was run for.
func (c *Calculation) UpdateEffectiveDate(effectiveDate time.Time) {
	c.EffectiveRetirementDate = effectiveDate
}

// UpdateRetirementDatesAges replaces the cached dates-ages payload.
func (c *Calculation) UpdateRetirementDatesAges(datesAgesJSON string, now time.Time) {
	c.RetirementDatesAgesJSON = datesAgesJSON
	c.CurrentDate = now
}

// SetJourney links the calculation to the journey it belongs to and records the selected quote.
func (c *Calculation) SetJourney(journey *Journey, selectedQuoteName string) {
	c.Journey = journey
	c.SelectedQuoteName = selectedQuoteName
}

// SetCalculationStatus marks the calculation with a business outcome that carries no figures.
func (c *Calculation) SetCalculationStatus(status string) {
	failed := false
	c.CalculationStatus = &status
	c.IsCalculationSuccessful = &failed
}

// Status returns the calculation status, or "" on success.
func (c *Calculation) Status() string {
	if c.CalculationStatus == nil {
		return ""
	}
	return *c.CalculationStatus
}

// IsSuccessful reports whether the last attempt produced figures.
func (c *Calculation) IsSuccessful() bool {
	return c.IsCalculationSuccessful != nil && *c.IsCalculationSuccessful
}

// IsForbidden reports whether the member was ineligible when the calculation was made.
func (c *Calculation) IsForbidden() bool {
	return c.Status() == CalculationStatusForbidden
}

// HasNoFigures reports whether the calculation API answered without figures.
func (c *Calculation) HasNoFigures() bool {
	return c.Status() == CalculationStatusNoFigures
}

// IsRetirementV2 reports whether the calculation holds a V2 retirement payload.
func (c *Calculation) IsRetirementV2() bool {
	return c.RetirementJSONV2 != ""
}

// HasJourney reports whether the calculation is linked to a retirement journey.
func (c *Calculation) HasJourney() bool {
	return c.Journey != nil
}

// CalculationOutcome carries either a calculation or the error that prevented one.
type CalculationOutcome struct {
	Calculation *Calculation
	Err         error
}

// OutcomeOf wraps a (calculation, error) pair.
func OutcomeOf(calc *Calculation, err error) CalculationOutcome {
	return CalculationOutcome{Calculation: calc, Err: err}
}

// IsSuccess reports whether the outcome carries a calculation.
func (o CalculationOutcome) IsSuccess() bool {
	return o.Err == nil && o.Calculation != nil
}
