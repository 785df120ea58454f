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
	"github.com/SscSPs/mdp_service/internal/dto"
)

// retirementJourneyTypes are the journeys that take ownership of the member's calculation.
var retirementJourneyTypes = map[string]bool{
	domain.JourneyTypeDcRetirementApplication:     true,
	domain.JourneyTypeDbCoreRetirementApplication: true,
}

// journeyService implements the JourneySvcFacade interface
type journeyService struct {
	BaseService
	journeyRepo     portsrepo.JourneyRepositoryFacade
	calculationRepo portsrepo.CalculationRepositoryFacade
	transferRepo    portsrepo.TransferCalculationRepositoryFacade
	memberRepo      portsrepo.MemberWriter
	unitOfWork      portsrepo.UnitOfWork
	dualTxManager   portsrepo.DualTransactionManager
	accessKeyCache  portsclients.AccessKeyCache
}

// JourneyOption is a functional option for configuring the journey service
type JourneyOption func(*journeyService)

// WithJourneyClock overrides the clock used for step and expiry timestamps
func WithJourneyClock(clock func() time.Time) JourneyOption {
	return func(s *journeyService) {
		s.Clock = clock
	}
}

// WithJourneyAccessKeyCache drops the member's cached access key whenever a journey changes
func WithJourneyAccessKeyCache(cache portsclients.AccessKeyCache) JourneyOption {
	return func(s *journeyService) {
		s.accessKeyCache = cache
	}
}

// NewJourneyService creates a new journey service with the provided options
func NewJourneyService(
	journeyRepo portsrepo.JourneyRepositoryFacade,
	calculationRepo portsrepo.CalculationRepositoryFacade,
	transferRepo portsrepo.TransferCalculationRepositoryFacade,
	memberRepo portsrepo.MemberWriter,
	unitOfWork portsrepo.UnitOfWork,
	dualTxManager portsrepo.DualTransactionManager,
	options ...JourneyOption,
) portssvc.JourneySvcFacade {
	svc := &journeyService{
		journeyRepo:     journeyRepo,
		calculationRepo: calculationRepo,
		transferRepo:    transferRepo,
		memberRepo:      memberRepo,
		unitOfWork:      unitOfWork,
		dualTxManager:   dualTxManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JourneySvcFacade = (*journeyService)(nil)

// GetJourney returns the member's journey of the given type.
func (s *journeyService) GetJourney(ctx context.Context, member dto.MemberRef, journeyType string) (*domain.Journey, error) {
	journey, err := s.journeyRepo.FindJourney(ctx, member.BusinessGroup, member.ReferenceNumber, journeyType)
	if err != nil {
		s.LogError(ctx, err, "Failed to find journey", s.journeyAttrs(member, journeyType)...)
		return nil, fmt.Errorf("failed to find journey: %w", err)
	}
	if journey == nil {
		return nil, apperrors.ErrJourneyNotFound
	}
	return journey, nil
}

// StartJourney opens a new journey, replacing any active journey of the same type.
func (s *journeyService) StartJourney(ctx context.Context, member dto.MemberRef, journeyType string, req dto.StartJourneyRequest) (*domain.Journey, error) {
	attrs := s.journeyAttrs(member, journeyType)
	now := s.Now()

	existing, err := s.journeyRepo.FindJourney(ctx, member.BusinessGroup, member.ReferenceNumber, journeyType)
	if err != nil {
		s.LogError(ctx, err, "Failed to find journey", attrs...)
		return nil, fmt.Errorf("failed to find journey: %w", err)
	}
	if existing != nil && existing.IsSubmitted() && !existing.IsExpired(now) {
		return nil, apperrors.ErrJourneySubmitted
	}

	var exploreOptions *domain.Journey
	if journeyType == domain.JourneyTypeDcRetirementApplication {
		exploreOptions, err = s.journeyRepo.FindJourney(ctx, member.BusinessGroup, member.ReferenceNumber, domain.JourneyTypeDcExploreOptions)
		if err != nil {
			s.LogError(ctx, err, "Failed to find explore options journey", attrs...)
			return nil, fmt.Errorf("failed to find journey: %w", err)
		}
	}

	journey, err := domain.CreateJourney(journeyType, member.BusinessGroup, member.ReferenceNumber, req.StartPageKey, now, exploreOptions)
	if err != nil {
		return nil, err
	}

	var calc *domain.Calculation
	if retirementJourneyTypes[journeyType] {
		calc, err = s.calculationRepo.FindCalculation(ctx, member.BusinessGroup, member.ReferenceNumber)
		if err != nil {
			s.LogError(ctx, err, "Failed to find calculation", attrs...)
			return nil, fmt.Errorf("failed to find calculation: %w", err)
		}
		if calc == nil || !calc.IsSuccessful() {
			return nil, fmt.Errorf("%w: a successful retirement calculation is required to start %s", apperrors.ErrValidation, journeyType)
		}
	}

	if existing != nil {
		if err := s.journeyRepo.RemoveJourney(ctx, existing); err != nil {
			s.LogError(ctx, err, "Failed to remove superseded journey", attrs...)
			return nil, fmt.Errorf("failed to remove journey: %w", err)
		}
	}
	if err := s.journeyRepo.CreateJourney(ctx, journey); err != nil {
		s.LogError(ctx, err, "Failed to create journey", attrs...)
		return nil, fmt.Errorf("failed to create journey: %w", err)
	}
	if calc != nil {
		calc.SetJourney(journey, calc.SelectedQuoteName)
		if err := s.calculationRepo.UpdateCalculation(ctx, calc); err != nil {
			s.LogError(ctx, err, "Failed to link calculation to journey", attrs...)
			return nil, fmt.Errorf("failed to update calculation: %w", err)
		}
	}
	if journeyType == domain.JourneyTypeTransfer {
		if err := s.updateTransferStatus(ctx, member, domain.TAStarted, now); err != nil {
			return nil, err
		}
	}

	if err := s.unitOfWork.Commit(ctx); err != nil {
		s.LogError(ctx, err, "Failed to commit new journey", attrs...)
		return nil, fmt.Errorf("failed to commit journey: %w", err)
	}
	s.LogInfo(ctx, "Journey started", append(attrs, slog.String("journey_id", journey.ID))...)
	s.invalidateAccessKey(ctx, member)
	return journey, nil
}

// SubmitStep completes the current page and moves to the next one.
func (s *journeyService) SubmitStep(ctx context.Context, member dto.MemberRef, journeyType string, req dto.SubmitStepRequest) (*domain.Journey, error) {
	return s.mutate(ctx, member, journeyType, "Failed to submit journey step", func(j *domain.Journey, now time.Time) error {
		return j.TrySubmitStep(req.CurrentPageKey, req.NextPageKey, now, req.Question())
	})
}

// RewindJourney reopens an earlier page on a new branch.
func (s *journeyService) RewindJourney(ctx context.Context, member dto.MemberRef, journeyType string, req dto.RewindJourneyRequest) (*domain.Journey, error) {
	return s.mutate(ctx, member, journeyType, "Failed to rewind journey", func(j *domain.Journey, _ time.Time) error {
		return j.TryRewindTo(req.PageKey)
	})
}

// SaveGenericData stores form data against a page of the journey.
func (s *journeyService) SaveGenericData(ctx context.Context, member dto.MemberRef, journeyType string, req dto.SaveGenericDataRequest) (*domain.Journey, error) {
	return s.mutate(ctx, member, journeyType, "Failed to save journey data", func(j *domain.Journey, _ time.Time) error {
		return j.UpdateGenericData(req.PageKey, req.FormKey, req.GenericDataJSON)
	})
}

// mutate loads a live journey, applies change and persists the result.
func (s *journeyService) mutate(ctx context.Context, member dto.MemberRef, journeyType, failureMsg string, change func(*domain.Journey, time.Time) error) (*domain.Journey, error) {
	attrs := s.journeyAttrs(member, journeyType)
	now := s.Now()

	journey, err := s.GetJourney(ctx, member, journeyType)
	if err != nil {
		return nil, err
	}
	if journey.IsExpired(now) {
		return nil, apperrors.ErrJourneyExpired
	}
	if err := change(journey, now); err != nil {
		s.LogWarn(ctx, failureMsg, append(attrs, slog.String("error", err.Error()))...)
		return nil, err
	}

	if err := s.journeyRepo.UpdateJourney(ctx, journey); err != nil {
		s.LogError(ctx, err, "Failed to update journey", attrs...)
		return nil, fmt.Errorf("failed to update journey: %w", err)
	}
	if err := s.unitOfWork.Commit(ctx); err != nil {
		s.LogError(ctx, err, "Failed to commit journey", attrs...)
		return nil, fmt.Errorf("failed to commit journey: %w", err)
	}
	s.invalidateAccessKey(ctx, member)
	return journey, nil
}

// SubmitJourney completes the journey and records the submission in both stores.
func (s *journeyService) SubmitJourney(ctx context.Context, member dto.MemberRef, journeyType string) (*domain.Journey, error) {
	attrs := s.journeyAttrs(member, journeyType)
	now := s.Now()

	journey, err := s.GetJourney(ctx, member, journeyType)
	if err != nil {
		return nil, err
	}
	if err := journey.SubmitJourney(now); err != nil {
		s.LogWarn(ctx, "Journey cannot be submitted", append(attrs, slog.String("error", err.Error()))...)
		return nil, err
	}

	txCtx, tx, err := s.dualTxManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin journey submission transaction", attrs...)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.persistSubmission(txCtx, member, journey, now); err != nil {
		if rbErr := tx.Rollback(txCtx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back journey submission", attrs...)
		}
		return nil, err
	}
	if err := tx.Commit(txCtx); err != nil {
		s.LogError(ctx, err, "Failed to commit journey submission", attrs...)
		return nil, fmt.Errorf("failed to commit journey submission: %w", err)
	}

	s.LogInfo(ctx, "Journey submitted", append(attrs, slog.String("journey_id", journey.ID))...)
	s.invalidateAccessKey(ctx, member)
	return journey, nil
}

// persistSubmission writes the submitted journey to the mdp store and the submission record to the
// member store. ctx must carry the two-store transaction.
func (s *journeyService) persistSubmission(ctx context.Context, member dto.MemberRef, journey *domain.Journey, now time.Time) error {
	attrs := s.journeyAttrs(member, journey.Type)
	if err := s.journeyRepo.UpdateJourney(ctx, journey); err != nil {
		s.LogError(ctx, err, "Failed to update submitted journey", attrs...)
		return fmt.Errorf("failed to update journey: %w", err)
	}
	if journey.Type == domain.JourneyTypeTransfer {
		if err := s.updateTransferStatus(ctx, member, domain.TASubmitted, now); err != nil {
			return err
		}
	}
	submission := domain.JourneySubmission{
		BusinessGroup:   member.BusinessGroup,
		ReferenceNumber: member.ReferenceNumber,
		JourneyID:       journey.ID,
		JourneyType:     journey.Type,
		SubmittedAt:     now,
	}
	if err := s.memberRepo.RecordJourneySubmission(ctx, submission); err != nil {
		s.LogError(ctx, err, "Failed to record journey submission", attrs...)
		return fmt.Errorf("failed to record journey submission: %w", err)
	}
	return nil
}

func (s *journeyService) updateTransferStatus(ctx context.Context, member dto.MemberRef, status domain.TransferApplicationStatus, now time.Time) error {
	attrs := memberAttrs(member.BusinessGroup, member.ReferenceNumber)
	transfer, err := s.transferRepo.FindTransferCalculation(ctx, member.BusinessGroup, member.ReferenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to find transfer calculation", attrs...)
		return fmt.Errorf("failed to find transfer calculation: %w", err)
	}
	if transfer == nil {
		s.LogDebug(ctx, "No transfer calculation to update", attrs...)
		return nil
	}
	transfer.SetStatus(status, now)
	if err := s.transferRepo.UpdateTransferCalculation(ctx, transfer); err != nil {
		s.LogError(ctx, err, "Failed to update transfer calculation", attrs...)
		return fmt.Errorf("failed to update transfer calculation: %w", err)
	}
	return nil
}

func (s *journeyService) invalidateAccessKey(ctx context.Context, member dto.MemberRef) {
	if s.accessKeyCache == nil {
		return
	}
	if err := s.accessKeyCache.Remove(ctx, member.BusinessGroup, member.ReferenceNumber); err != nil {
		s.LogWarn(ctx, "Failed to remove cached access key", append(memberAttrs(member.BusinessGroup, member.ReferenceNumber), slog.String("error", err.Error()))...)
	}
}

func (s *journeyService) journeyAttrs(member dto.MemberRef, journeyType string) []any {
	return append(memberAttrs(member.BusinessGroup, member.ReferenceNumber), slog.String("journey_type", journeyType))
}
