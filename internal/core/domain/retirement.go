package domain

// RetirementApplicationStatus classifies where a member stands with an online retirement application.
type RetirementApplicationStatus string

const (
	RAUndefined                RetirementApplicationStatus = "Undefined"
	RANotEligibleToStart       RetirementApplicationStatus = "NotEligibleToStart"
	RANotEligibleToRetire      RetirementApplicationStatus = "NotEligibleToRetire"
	RAEligibleToStart          RetirementApplicationStatus = "EligibleToStart"
	RAStarted                  RetirementApplicationStatus = "StartedRA"
	RASubmitted                RetirementApplicationStatus = "SubmittedRA"
	RARetirementCase           RetirementApplicationStatus = "RetirementCase"
	RARetirementDateOutOfRange RetirementApplicationStatus = "RetirementDateOutOfRange"
)

// ExistingRetirementJourneyType names the kind of retirement application already on record.
type ExistingRetirementJourneyType string

const (
	ExistingJourneyNone                    ExistingRetirementJourneyType = "None"
	ExistingJourneyDbRetirementApplication ExistingRetirementJourneyType = "DbRetirementApplication"
	ExistingJourneyDcRetirementApplication ExistingRetirementJourneyType = "DcRetirementApplication"
)

// DcJourneyStatus summarises the DC retirement journeys a member has open.
type DcJourneyStatus string

const (
	DcJourneyExploreOptions DcJourneyStatus = "ExploreOptions"
	DcJourneyStarted        DcJourneyStatus = "Started"
	DcJourneySubmitted      DcJourneyStatus = "Submitted"
)

// LifeStage is the member's position relative to their retirement ages.
type LifeStage string

const (
	LifeStageUndefined                  LifeStage = "Undefined"
	LifeStageNotEligibleToRetire        LifeStage = "NotEligibleToRetire"
	LifeStagePreRetiree                 LifeStage = "PreRetiree"
	LifeStageEligibleToRetire           LifeStage = "EligibleToRetire"
	LifeStageCloseToLatestRetirementAge LifeStage = "CloseToLatestRetirementAge"
	LifeStageOverLatestRetirementAge    LifeStage = "OverLatestRetirementAge"
	LifeStageNewlyRetired               LifeStage = "NewlyRetired"
	LifeStageEstablishedRetirement      LifeStage = "EstablishedRetirement"
)

// Calculation accessibility strings reported as dbCalculationStatus.
const (
	CalcAccessible    = "calcAccessible"
	CalcNoFigures     = "calcNoFigures"
	CalcNotAccessible = "calcNotAccessible"
)

// DcLifeStageUndefined is reported when no DC life stage can be derived.
const DcLifeStageUndefined = "undefined"

// Calculation statuses persisted on a Calculation.
const (
	CalculationStatusForbidden = "forbidden"
	CalculationStatusNoFigures = "noFigures"
)
