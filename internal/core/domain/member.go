package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SchemeType distinguishes defined benefit from defined contribution schemes.
type SchemeType string

const (
	SchemeDB SchemeType = "DB"
	SchemeDC SchemeType = "DC"
)

// MemberStatus is the member's lifecycle status as held in the member store.
type MemberStatus string

const (
	MemberActive    MemberStatus = "Active"
	MemberDeferred  MemberStatus = "Deferred"
	MemberPensioner MemberStatus = "Pensioner"
	MemberDependant MemberStatus = "Dependant"
)

// Paper retirement application case statuses that close the application.
var closedPaperApplicationStatuses = map[string]bool{
	"abandoned": true,
	"closed":    true,
	"cancelled": true,
}

// Member is a scheme member identified by business group and reference number.
type Member struct {
	BusinessGroup               string                       `json:"businessGroup"`
	ReferenceNumber             string                       `json:"referenceNumber"`
	SchemeCode                  string                       `json:"schemeCode"`
	SchemeType                  SchemeType                   `json:"schemeType"`
	Category                    string                       `json:"category"`
	Status                      MemberStatus                 `json:"status"`
	StatusCode                  string                       `json:"statusCode"`
	DateOfBirth                 *time.Time                   `json:"dateOfBirth,omitempty"`
	DateOfRetirement            *time.Time                   `json:"dateOfRetirement,omitempty"`
	HasAdditionalContributions  bool                         `json:"hasAdditionalContributions"`
	LinkedMembers               []LinkedMember               `json:"linkedMembers"`
	PaperRetirementApplications []PaperRetirementApplication `json:"paperRetirementApplications"`
}

// LinkedMember references another record held for the same person.
type LinkedMember struct {
	LinkedBusinessGroup   string `json:"linkedBusinessGroup"`
	LinkedReferenceNumber string `json:"linkedReferenceNumber"`
}

// PaperRetirementApplication is a retirement application case raised outside the online journey.
type PaperRetirementApplication struct {
	CaseNumber   string    `json:"caseNumber"`
	CaseCode     string    `json:"caseCode"`
	CaseStatus   string    `json:"caseStatus"`
	ReceivedDate time.Time `json:"receivedDate"`
}

// IsClosed reports whether the case was abandoned, closed or cancelled.
func (p PaperRetirementApplication) IsClosed() bool {
	return closedPaperApplicationStatuses[strings.ToLower(strings.TrimSpace(p.CaseStatus))]
}

// IsSchemeDC reports whether the member belongs to a defined contribution scheme.
func (m *Member) IsSchemeDC() bool {
	return m.SchemeType == SchemeDC
}

// IsMemberValidForRaCalculation reports whether a retirement calculation may be run for the member.
func (m *Member) IsMemberValidForRaCalculation() bool {
	if m.DateOfBirth == nil {
		return false
	}
	return m.Status == MemberActive || m.Status == MemberDeferred
}

// AgeAt returns the member's age in whole years and remaining whole months.
func (m *Member) AgeAt(now time.Time) (years int, months int, ok bool) {
	if m.DateOfBirth == nil {
		return 0, 0, false
	}
	total := monthsBetween(*m.DateOfBirth, now)
	if total < 0 {
		return 0, 0, false
	}
	return total / 12, total % 12, true
}

// AgeInYears returns the member's age as fractional years, month precision.
func (m *Member) AgeInYears(now time.Time) (float64, bool) {
	years, months, ok := m.AgeAt(now)
	if !ok {
		return 0, false
	}
	return float64(years) + float64(months)/12, true
}

// CurrentAgeLabel renders the member's age as "{years}Y{months}M", or "" when unknown.
func (m *Member) CurrentAgeLabel(now time.Time) string {
	years, months, ok := m.AgeAt(now)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%dY%dM", years, months)
}

// LatestPaperRetirementApplication returns the most recently received paper application, if any.
func (m *Member) LatestPaperRetirementApplication() *PaperRetirementApplication {
	if len(m.PaperRetirementApplications) == 0 {
		return nil
	}
	apps := make([]PaperRetirementApplication, len(m.PaperRetirementApplications))
	copy(apps, m.PaperRetirementApplications)
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].ReceivedDate.After(apps[j].ReceivedDate)
	})
	return &apps[0]
}

// HasOpenPaperRetirementApplication reports whether the latest paper application is still being processed.
func (m *Member) HasOpenPaperRetirementApplication() bool {
	latest := m.LatestPaperRetirementApplication()
	return latest != nil && !latest.IsClosed()
}

// monthsBetween counts completed calendar months from 'from' to 'to'.
func monthsBetween(from, to time.Time) int {
	from = from.UTC()
	to = to.UTC()
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}
