package domain

import "time"

// NmpaCohort places a member relative to the rise of the normal minimum pension age.
type NmpaCohort string

const (
	NmpaCohortPre     NmpaCohort = "NmpaPre"
	NmpaCohortCurrent NmpaCohort = "NmpaCurrent"
	NmpaCohortPost    NmpaCohort = "NmpaPost"
)

var (
	// Members born on or before this date keep a minimum pension age of 55.
	nmpaPreCohortLastBirthDate = time.Date(1971, time.April, 5, 0, 0, 0, 0, time.UTC)
	// Members born on or before this date (and after the pre cohort) reach 55 before the change.
	nmpaCurrentCohortLastBirthDate = time.Date(1973, time.April, 5, 0, 0, 0, 0, time.UTC)
)

// NmpaCohortFor classifies a date of birth. Time of day is ignored.
func NmpaCohortFor(dateOfBirth time.Time) NmpaCohort {
	dob := time.Date(dateOfBirth.Year(), dateOfBirth.Month(), dateOfBirth.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case !dob.After(nmpaPreCohortLastBirthDate):
		return NmpaCohortPre
	case !dob.After(nmpaCurrentCohortLastBirthDate):
		return NmpaCohortCurrent
	default:
		return NmpaCohortPost
	}
}
