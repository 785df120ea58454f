package repositories

import (
	"context"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// CalculationReader defines read operations for cached retirement calculations
type CalculationReader interface {
	// FindCalculation retrieves the member's calculation together with its linked journey, or nil.
	FindCalculation(ctx context.Context, businessGroup, referenceNumber string) (*domain.Calculation, error)
}

// CalculationWriter defines write operations for cached retirement calculations
type CalculationWriter interface {
	CreateCalculation(ctx context.Context, calculation *domain.Calculation) error
	UpdateCalculation(ctx context.Context, calculation *domain.Calculation) error
	RemoveCalculation(ctx context.Context, calculation *domain.Calculation) error
}

// CalculationRepositoryFacade combines all calculation-related repository interfaces
type CalculationRepositoryFacade interface {
	CalculationReader
	CalculationWriter
}

// TransferCalculationRepositoryFacade reads and updates cached transfer quotes
type TransferCalculationRepositoryFacade interface {
	FindTransferCalculation(ctx context.Context, businessGroup, referenceNumber string) (*domain.TransferCalculation, error)
	UpdateTransferCalculation(ctx context.Context, calculation *domain.TransferCalculation) error
}

// QuoteSelectionJourneyReader reads the quote a member picked during a retirement journey
type QuoteSelectionJourneyReader interface {
	FindQuoteSelectionJourney(ctx context.Context, businessGroup, referenceNumber string) (*domain.QuoteSelectionJourney, error)
}
