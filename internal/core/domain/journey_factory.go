package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/google/uuid"
)

const (
	// JourneyLifetimeDays is the default lifetime of an expiring journey.
	JourneyLifetimeDays = 90
	// dcRetirementDateCutOffDays closes a DC application this many days before the chosen retirement date.
	dcRetirementDateCutOffDays = 21
)

// expiringJourneyTypes lists journey types whose expiry is a fixed period after start.
var expiringJourneyTypes = map[string]bool{
	JourneyTypeDbCoreRetirementApplication: true,
	JourneyTypeTransfer:                    true,
}

// CreateJourney starts a journey of the given type on startPageKey. exploreOptions is the member's
// dcexploreoptions journey, consulted for the selected retirement date of a DC application; it may be nil.
func CreateJourney(journeyType, businessGroup, referenceNumber, startPageKey string, now time.Time, exploreOptions *Journey) (*Journey, error) {
	if journeyType == "" || startPageKey == "" {
		return nil, fmt.Errorf("%w: journey type and start page are required", apperrors.ErrValidation)
	}
	if businessGroup == "" || referenceNumber == "" {
		return nil, fmt.Errorf("%w: business group and reference number are required", apperrors.ErrValidation)
	}

	var retirementDate *time.Time
	if exploreOptions != nil {
		retirementDate = exploreOptions.SelectedRetirementDate()
	}

	return &Journey{
		ID:              uuid.NewString(),
		BusinessGroup:   businessGroup,
		ReferenceNumber: referenceNumber,
		Type:            journeyType,
		Status:          JourneyStatusStarted,
		StartDate:       now,
		ExpirationDate:  JourneyExpiryDate(journeyType, now, retirementDate),
		Branches: []JourneyBranch{{
			Number:   1,
			IsActive: true,
			Steps:    []JourneyStep{{CurrentPageKey: startPageKey}},
		}},
	}, nil
}

// JourneyExpiryDate computes when a journey of the given type started at start stops being usable.
// A nil result means the journey never expires.
func JourneyExpiryDate(journeyType string, start time.Time, retirementDate *time.Time) *time.Time {
	switch {
	case journeyType == JourneyTypeDcRetirementApplication:
		expiry := DcRetirementApplicationExpiry(start, retirementDate)
		return &expiry
	case expiringJourneyTypes[journeyType]:
		expiry := start.AddDate(0, 0, JourneyLifetimeDays)
		return &expiry
	default:
		return nil
	}
}

// DcRetirementApplicationExpiry keeps a DC application open for JourneyLifetimeDays unless the
// selected retirement date falls inside that window plus the cut-off, in which case the
// application closes dcRetirementDateCutOffDays before retirement.
func DcRetirementApplicationExpiry(start time.Time, retirementDate *time.Time) time.Time {
	standard := start.AddDate(0, 0, JourneyLifetimeDays)
	if retirementDate == nil {
		return standard
	}
	if daysBetween(start, *retirementDate) >= JourneyLifetimeDays+dcRetirementDateCutOffDays {
		return standard
	}
	return retirementDate.AddDate(0, 0, -dcRetirementDateCutOffDays)
}

// daysBetween counts calendar days from 'from' to 'to', ignoring time of day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
