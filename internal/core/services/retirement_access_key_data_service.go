package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
)

const (
	// dcEffectiveDateOffsetMonths is how far ahead DC retirement calculations are run.
	dcEffectiveDateOffsetMonths = 6
	// retirementWindowMonths bounds how far ahead a retirement application may target.
	retirementWindowMonths = 6
)

// retirementAccessKeyDataService implements the RetirementAccessKeyDataSvc interface
type retirementAccessKeyDataService struct {
	BaseService
	calculationRepo    portsrepo.CalculationRepositoryFacade
	journeyRepo        portsrepo.JourneyRepositoryFacade
	memberRepo         portsrepo.MemberReader
	unitOfWork         portsrepo.UnitOfWork
	calculationsClient portsclients.CalculationsClient
}

// RetirementDataOption is a functional option for configuring the retirement data service
type RetirementDataOption func(*retirementAccessKeyDataService)

// WithRetirementDataClock overrides the clock used for expiry and eligibility checks
func WithRetirementDataClock(clock func() time.Time) RetirementDataOption {
	return func(s *retirementAccessKeyDataService) {
		s.Clock = clock
	}
}

// NewRetirementAccessKeyDataService creates a new retirement data service with the provided options
func NewRetirementAccessKeyDataService(
	calculationRepo portsrepo.CalculationRepositoryFacade,
	journeyRepo portsrepo.JourneyRepositoryFacade,
	memberRepo portsrepo.MemberReader,
	unitOfWork portsrepo.UnitOfWork,
	calculationsClient portsclients.CalculationsClient,
	options ...RetirementDataOption,
) portssvc.RetirementAccessKeyDataSvc {
	svc := &retirementAccessKeyDataService{
		calculationRepo:    calculationRepo,
		journeyRepo:        journeyRepo,
		memberRepo:         memberRepo,
		unitOfWork:         unitOfWork,
		calculationsClient: calculationsClient,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RetirementAccessKeyDataSvc = (*retirementAccessKeyDataService)(nil)

// GetNewRetirementCalculation runs and stores a retirement calculation for a member without a linked journey.
// Client errors are returned without persisting anything.
func (s *retirementAccessKeyDataService) GetNewRetirementCalculation(ctx context.Context, datesAges *domain.RetirementDatesAges, member *domain.Member) (*domain.Calculation, error) {
	now := s.Now()
	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)

	existing, err := s.calculationRepo.FindCalculation(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up existing calculation", attrs...)
		return nil, fmt.Errorf("failed to find calculation: %w", err)
	}

	if !member.IsMemberValidForRaCalculation() {
		s.LogInfo(ctx, "Member not eligible for retirement calculation", attrs...)
		calc := domain.NewForbiddenCalculation(member.BusinessGroup, member.ReferenceNumber, rawDatesAges(datesAges), now)
		if err := s.replaceCalculation(ctx, existing, calc); err != nil {
			return nil, err
		}
		return calc, nil
	}

	effectiveDate := requestEffectiveDate(member, now)
	result, err := s.calculationsClient.RetirementCalculationV2(ctx, member.BusinessGroup, member.ReferenceNumber, effectiveDate)
	if err != nil {
		s.LogError(ctx, err, "Retirement calculation request failed", attrs...)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCalculationFailed, err)
	}

	if result.HasNoFigures() {
		s.LogInfo(ctx, "Retirement calculation returned no figures", attrs...)
		calc := domain.NewCalculation(member.BusinessGroup, member.ReferenceNumber, rawDatesAges(datesAges), effectiveDate, now)
		calc.SetCalculationStatus(domain.CalculationStatusNoFigures)
		if err := s.replaceCalculation(ctx, existing, calc); err != nil {
			return nil, err
		}
		return calc, nil
	}

	if result.EffectiveDate != nil {
		effectiveDate = *result.EffectiveDate
	}

	if existing != nil && existing.IsSuccessful() {
		existing.UpdateRetirementDatesAges(rawDatesAges(datesAges), now)
		existing.UpdateRetirementV2(result.RetirementJSON, result.QuotesJSON, true, now)
		existing.UpdateEffectiveDate(effectiveDate)
		if err := s.calculationRepo.UpdateCalculation(ctx, existing); err != nil {
			s.LogError(ctx, err, "Failed to update calculation", attrs...)
			return nil, fmt.Errorf("failed to update calculation: %w", err)
		}
		if err := s.unitOfWork.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit calculation: %w", err)
		}
		return existing, nil
	}

	calc := domain.NewCalculation(member.BusinessGroup, member.ReferenceNumber, rawDatesAges(datesAges), effectiveDate, now)
	calc.UpdateRetirementV2(result.RetirementJSON, result.QuotesJSON, true, now)
	if err := s.replaceCalculation(ctx, existing, calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// replaceCalculation removes the member's previous calculation, if any, creates calc and commits.
func (s *retirementAccessKeyDataService) replaceCalculation(ctx context.Context, existing, calc *domain.Calculation) error {
	attrs := memberAttrs(calc.BusinessGroup, calc.ReferenceNumber)
	if existing != nil {
		if err := s.calculationRepo.RemoveCalculation(ctx, existing); err != nil {
			s.LogError(ctx, err, "Failed to remove previous calculation", attrs...)
			return fmt.Errorf("failed to remove calculation: %w", err)
		}
	}
	if err := s.calculationRepo.CreateCalculation(ctx, calc); err != nil {
		s.LogError(ctx, err, "Failed to create calculation", attrs...)
		return fmt.Errorf("failed to create calculation: %w", err)
	}
	if err := s.unitOfWork.Commit(ctx); err != nil {
		s.LogError(ctx, err, "Failed to commit calculation", attrs...)
		return fmt.Errorf("failed to commit calculation: %w", err)
	}
	return nil
}

// GetRetirementCalculationWithJourney loads the calculation linked to the member's retirement journey,
// rebuilding it for submitted journeys and rerunning it for expired ones.
func (s *retirementAccessKeyDataService) GetRetirementCalculationWithJourney(ctx context.Context, datesAges *domain.RetirementDatesAges, referenceNumber, businessGroup string) (*domain.Calculation, error) {
	attrs := memberAttrs(businessGroup, referenceNumber)
	calc, err := s.calculationRepo.FindCalculation(ctx, businessGroup, referenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up calculation", attrs...)
		return nil, fmt.Errorf("failed to find calculation: %w", err)
	}
	if calc == nil || calc.Journey == nil {
		panic(fmt.Sprintf("no retirement calculation linked to a journey for %s/%s", businessGroup, referenceNumber))
	}

	now := s.Now()
	journey := calc.Journey
	var resultErr error
	calcChanged := false

	switch {
	case journey.IsCurrentStepSubmitted():
		if calc.RetirementJSONV2 == "" {
			calcChanged = s.rebuildRetirementV2(ctx, calc, datesAges, now)
		}
	case journey.IsExpired(now):
		s.LogInfo(ctx, "Retirement journey expired, refreshing calculation", attrs...)
		resultErr = s.refreshExpiredCalculation(ctx, calc, datesAges, now)
		calcChanged = true
	}

	if journey.RemoveStaleVerificationSteps(now) {
		s.LogInfo(ctx, "Removed stale identity verification steps", append(attrs, slog.String("journey_id", journey.ID))...)
		if err := s.journeyRepo.UpdateJourney(ctx, journey); err != nil {
			s.LogError(ctx, err, "Failed to update journey", attrs...)
			return nil, fmt.Errorf("failed to update journey: %w", err)
		}
	}
	if calcChanged {
		if err := s.calculationRepo.UpdateCalculation(ctx, calc); err != nil {
			s.LogError(ctx, err, "Failed to update calculation", attrs...)
			return nil, fmt.Errorf("failed to update calculation: %w", err)
		}
	}
	if err := s.unitOfWork.Commit(ctx); err != nil {
		s.LogError(ctx, err, "Failed to commit calculation", attrs...)
		return nil, fmt.Errorf("failed to commit calculation: %w", err)
	}

	if resultErr != nil {
		return nil, resultErr
	}
	return calc, nil
}

// rebuildRetirementV2 fills an empty V2 payload from the supplied dates and ages, falling back to the
// ones stored on the calculation. It reports whether the calculation changed.
func (s *retirementAccessKeyDataService) rebuildRetirementV2(ctx context.Context, calc *domain.Calculation, datesAges *domain.RetirementDatesAges, now time.Time) bool {
	attrs := memberAttrs(calc.BusinessGroup, calc.ReferenceNumber)
	source := datesAges
	if source == nil {
		stored, err := domain.ParseRetirementDatesAges(calc.RetirementDatesAgesJSON)
		if err != nil {
			s.LogWarn(ctx, "No dates and ages available to rebuild retirement payload", attrs...)
			return false
		}
		source = stored
	}
	retirementJSON, err := source.RetirementV2JSON()
	if err != nil {
		s.LogError(ctx, err, "Failed to rebuild retirement payload", attrs...)
		return false
	}
	if datesAges != nil {
		calc.UpdateRetirementDatesAges(datesAges.RawJSON(), now)
	}
	calc.UpdateRetirementJSONV2(retirementJSON, now)
	return true
}

// refreshExpiredCalculation reruns the calculation behind an expired journey. The calculation and
// journey are updated in place; the returned error is the outcome to report to the caller.
func (s *retirementAccessKeyDataService) refreshExpiredCalculation(ctx context.Context, calc *domain.Calculation, datesAges *domain.RetirementDatesAges, now time.Time) error {
	attrs := memberAttrs(calc.BusinessGroup, calc.ReferenceNumber)
	member, err := s.memberRepo.FindMember(ctx, calc.BusinessGroup, calc.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up member", attrs...)
		return fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil || !member.IsMemberValidForRaCalculation() {
		calc.SetCalculationStatus(domain.CalculationStatusForbidden)
		return apperrors.ErrCalculationForbidden
	}

	effectiveDate := requestEffectiveDate(member, now)
	result, err := s.calculationsClient.RetirementCalculationV2(ctx, calc.BusinessGroup, calc.ReferenceNumber, effectiveDate)
	if err != nil {
		s.LogError(ctx, err, "Retirement calculation request failed", attrs...)
		return fmt.Errorf("%w: %w", apperrors.ErrCalculationFailed, err)
	}
	if datesAges != nil {
		calc.UpdateRetirementDatesAges(datesAges.RawJSON(), now)
	}
	if result.HasNoFigures() {
		calc.SetCalculationStatus(domain.CalculationStatusNoFigures)
		return nil
	}
	if result.EffectiveDate != nil {
		effectiveDate = *result.EffectiveDate
	}
	calc.UpdateRetirementV2(result.RetirementJSON, result.QuotesJSON, true, now)
	calc.UpdateEffectiveDate(effectiveDate)

	journey := calc.Journey
	journey.RenewExpiry(domain.JourneyExpiryDate(journey.Type, now, &effectiveDate))
	if err := s.journeyRepo.UpdateJourney(ctx, journey); err != nil {
		s.LogError(ctx, err, "Failed to renew journey expiry", attrs...)
		return fmt.Errorf("failed to update journey: %w", err)
	}
	return nil
}

// GetExistingRetirementJourneyType reports which retirement application the member already has, if any.
func (s *retirementAccessKeyDataService) GetExistingRetirementJourneyType(ctx context.Context, member *domain.Member) (domain.ExistingRetirementJourneyType, error) {
	now := s.Now()
	calc, err := s.calculationRepo.FindCalculation(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		return domain.ExistingJourneyNone, fmt.Errorf("failed to find calculation: %w", err)
	}

	if member.IsSchemeDC() {
		if calc != nil && calc.HasJourney() && !calc.Journey.IsExpired(now) {
			return domain.ExistingJourneyDcRetirementApplication, nil
		}
		journey, err := s.journeyRepo.FindJourney(ctx, member.BusinessGroup, member.ReferenceNumber, domain.JourneyTypeDcRetirementApplication)
		if err != nil {
			return domain.ExistingJourneyNone, fmt.Errorf("failed to find dc retirement journey: %w", err)
		}
		if journey != nil && !journey.IsExpired(now) {
			return domain.ExistingJourneyDcRetirementApplication, nil
		}
		return domain.ExistingJourneyNone, nil
	}

	if calc == nil || !calc.HasJourney() {
		return domain.ExistingJourneyNone, nil
	}
	if calc.Journey.IsSubmitted() {
		return domain.ExistingJourneyDbRetirementApplication, nil
	}
	if paper := member.LatestPaperRetirementApplication(); paper == nil || !paper.IsClosed() {
		return domain.ExistingJourneyDbRetirementApplication, nil
	}
	return domain.ExistingJourneyNone, nil
}

// GetRetirementApplicationStatus classifies where the member stands with a retirement application.
func (s *retirementAccessKeyDataService) GetRetirementApplicationStatus(member *domain.Member, outcome domain.CalculationOutcome, preRetirementYears, newlyRetiredMonths int) domain.RetirementApplicationStatus {
	if member.HasOpenPaperRetirementApplication() {
		return domain.RARetirementCase
	}
	if !outcome.IsSuccess() {
		return domain.RAUndefined
	}
	calc := outcome.Calculation
	switch {
	case calc.IsForbidden():
		return domain.RANotEligibleToStart
	case calc.HasNoFigures():
		return domain.RAUndefined
	}

	now := s.Now()
	if calc.HasJourney() {
		if calc.Journey.IsSubmitted() {
			return domain.RASubmitted
		}
		if !calc.Journey.IsExpired(now) {
			return domain.RAStarted
		}
	}

	datesAges, err := domain.ParseRetirementDatesAges(calc.RetirementDatesAgesJSON)
	if err != nil {
		return domain.RAUndefined
	}
	switch datesAges.LifeStage(member, now, preRetirementYears, newlyRetiredMonths) {
	case domain.LifeStageUndefined:
		return domain.RAUndefined
	case domain.LifeStageNotEligibleToRetire:
		return domain.RANotEligibleToRetire
	case domain.LifeStageNewlyRetired, domain.LifeStageEstablishedRetirement, domain.LifeStageOverLatestRetirementAge:
		return domain.RANotEligibleToStart
	}
	if !calc.IsSuccessful() {
		return domain.RAUndefined
	}

	today := truncateToDay(now)
	effective := truncateToDay(calc.EffectiveRetirementDate)
	if effective.Before(today) || effective.After(today.AddDate(0, retirementWindowMonths, 0)) {
		return domain.RARetirementDateOutOfRange
	}
	return domain.RAEligibleToStart
}

// UpdateRetirementDatesAges stores fresh dates and ages on the calculation and commits.
func (s *retirementAccessKeyDataService) UpdateRetirementDatesAges(ctx context.Context, calculation *domain.Calculation, datesAges *domain.RetirementDatesAges) error {
	attrs := memberAttrs(calculation.BusinessGroup, calculation.ReferenceNumber)
	calculation.UpdateRetirementDatesAges(rawDatesAges(datesAges), s.Now())

	updateErr := s.calculationRepo.UpdateCalculation(ctx, calculation)
	if updateErr != nil {
		s.LogError(ctx, updateErr, "Failed to update retirement dates and ages", attrs...)
	}
	if err := s.unitOfWork.Commit(ctx); err != nil {
		s.LogError(ctx, err, "Failed to commit retirement dates and ages", attrs...)
		return fmt.Errorf("failed to commit calculation: %w", err)
	}
	if updateErr != nil {
		return fmt.Errorf("failed to update calculation: %w", updateErr)
	}
	return nil
}

// requestEffectiveDate is the date a new calculation is run for: six months out for DC, today for DB.
func requestEffectiveDate(member *domain.Member, now time.Time) time.Time {
	if member.IsSchemeDC() {
		return now.AddDate(0, dcEffectiveDateOffsetMonths, 0)
	}
	return now
}

func rawDatesAges(datesAges *domain.RetirementDatesAges) string {
	if datesAges == nil {
		return ""
	}
	return datesAges.RawJSON()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
