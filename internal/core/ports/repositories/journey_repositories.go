package repositories

import (
	"context"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// JourneyReader defines read operations for member journeys
type JourneyReader interface {
	// FindJourney retrieves the member's journey of the given type, or nil when there is none.
	FindJourney(ctx context.Context, businessGroup, referenceNumber, journeyType string) (*domain.Journey, error)

	// FindAllJourneys retrieves every journey held for the member.
	FindAllJourneys(ctx context.Context, businessGroup, referenceNumber string) ([]domain.Journey, error)
}

// JourneyWriter defines write operations for member journeys
type JourneyWriter interface {
	CreateJourney(ctx context.Context, journey *domain.Journey) error
	UpdateJourney(ctx context.Context, journey *domain.Journey) error
	RemoveJourney(ctx context.Context, journey *domain.Journey) error
}

// JourneyRepositoryFacade combines all journey-related repository interfaces
type JourneyRepositoryFacade interface {
	JourneyReader
	JourneyWriter
}
