package services

import (
	"context"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	"github.com/SscSPs/mdp_service/internal/dto"
)

// JourneyReaderSvc defines read operations for member journeys
type JourneyReaderSvc interface {
	GetJourney(ctx context.Context, member dto.MemberRef, journeyType string) (*domain.Journey, error)
}

// JourneyWriterSvc defines the journey state transitions
type JourneyWriterSvc interface {
	// StartJourney removes any unsubmitted journey of the same type and starts a new one.
	StartJourney(ctx context.Context, member dto.MemberRef, journeyType string, req dto.StartJourneyRequest) (*domain.Journey, error)
	SubmitStep(ctx context.Context, member dto.MemberRef, journeyType string, req dto.SubmitStepRequest) (*domain.Journey, error)
	RewindJourney(ctx context.Context, member dto.MemberRef, journeyType string, req dto.RewindJourneyRequest) (*domain.Journey, error)
	SaveGenericData(ctx context.Context, member dto.MemberRef, journeyType string, req dto.SaveGenericDataRequest) (*domain.Journey, error)

	// SubmitJourney completes the journey and records the submission in the member store atomically.
	SubmitJourney(ctx context.Context, member dto.MemberRef, journeyType string) (*domain.Journey, error)
}

// JourneySvcFacade combines all journey-related service interfaces
type JourneySvcFacade interface {
	JourneyReaderSvc
	JourneyWriterSvc
}
