package domain

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// closeToLatestRetirementYears is how far ahead of the latest retirement age a member counts as close to it.
const closeToLatestRetirementYears = 1.0

// RetirementDatesAges is the calculation API's view of a member's key retirement ages and dates.
type RetirementDatesAges struct {
	EarliestRetirementAge   *float64   `json:"earliestRetirementAge"`
	NormalMinimumPensionAge *float64   `json:"normalMinimumPensionAge"`
	NormalRetirementAge     *float64   `json:"normalRetirementAge"`
	LatestRetirementAge     *float64   `json:"latestRetirementAge"`
	TargetRetirementAge     *float64   `json:"targetRetirementAge"`
	EarliestRetirementDate  *time.Time `json:"earliestRetirementDate"`
	NormalRetirementDate    *time.Time `json:"normalRetirementDate"`
	LatestRetirementDate    *time.Time `json:"latestRetirementDate"`
	TargetRetirementDate    *time.Time `json:"targetRetirementDate"`
	WordingFlags            []string   `json:"-"`

	raw string
}

type retirementDatesAgesEnvelope struct {
	RetirementDatesAges RetirementDatesAges `json:"retirementDatesAges"`
	WordingFlags        []string            `json:"wordingFlags"`
}

// ParseRetirementDatesAges decodes a dates-ages response body, keeping the raw JSON for persistence.
func ParseRetirementDatesAges(raw string) (*RetirementDatesAges, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty retirement dates ages payload")
	}
	var envelope retirementDatesAgesEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode retirement dates ages: %w", err)
	}
	datesAges := envelope.RetirementDatesAges
	datesAges.WordingFlags = envelope.WordingFlags
	datesAges.raw = raw
	return &datesAges, nil
}

// RawJSON returns the payload the value was parsed from.
func (d *RetirementDatesAges) RawJSON() string {
	return d.raw
}

// RetirementV2JSON renders the dates and ages as a V2 retirement payload with no GMP or tranche detail.
func (d *RetirementDatesAges) RetirementV2JSON() (string, error) {
	doc := struct {
		Retirement          struct{}             `json:"retirement"`
		RetirementDatesAges *RetirementDatesAges `json:"retirementDatesAges"`
		WordingFlags        []string             `json:"wordingFlags,omitempty"`
	}{RetirementDatesAges: d, WordingFlags: d.WordingFlags}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode retirement v2 payload: %w", err)
	}
	return string(raw), nil
}

// LifeStage places the member relative to their retirement ages.
func (d *RetirementDatesAges) LifeStage(member *Member, now time.Time, preRetirementYears int, newlyRetiredMonths int) LifeStage {
	if d == nil || member == nil {
		return LifeStageUndefined
	}
	if member.Status == MemberPensioner {
		if member.DateOfRetirement != nil && now.Before(member.DateOfRetirement.AddDate(0, newlyRetiredMonths, 0)) {
			return LifeStageNewlyRetired
		}
		return LifeStageEstablishedRetirement
	}

	age, ok := member.AgeInYears(now)
	if !ok || d.EarliestRetirementAge == nil {
		return LifeStageUndefined
	}
	era := *d.EarliestRetirementAge
	switch {
	case age < era-float64(preRetirementYears):
		return LifeStageNotEligibleToRetire
	case age < era:
		return LifeStagePreRetiree
	}
	if d.LatestRetirementAge != nil {
		lra := *d.LatestRetirementAge
		switch {
		case age >= lra:
			return LifeStageOverLatestRetirementAge
		case age >= lra-closeToLatestRetirementYears:
			return LifeStageCloseToLatestRetirementAge
		}
	}
	return LifeStageEligibleToRetire
}
