package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
)

type quoteSelectionService struct {
	BaseService
	quoteSelectionRepo portsrepo.QuoteSelectionJourneyReader
}

// NewQuoteSelectionService creates a new quote selection service
func NewQuoteSelectionService(quoteSelectionRepo portsrepo.QuoteSelectionJourneyReader) portssvc.QuoteSelectionSvc {
	return &quoteSelectionService{quoteSelectionRepo: quoteSelectionRepo}
}

var _ portssvc.QuoteSelectionSvc = (*quoteSelectionService)(nil)

// GetSelectedQuoteName prefers the quote chosen in a quote selection journey over the calculation's own label.
func (s *quoteSelectionService) GetSelectedQuoteName(ctx context.Context, businessGroup, referenceNumber string, calculation *domain.Calculation) (string, error) {
	selection, err := s.quoteSelectionRepo.FindQuoteSelectionJourney(ctx, businessGroup, referenceNumber)
	if err != nil {
		return "", fmt.Errorf("failed to find quote selection journey: %w", err)
	}
	if selection != nil && selection.SelectedQuoteName != "" {
		return selection.SelectedQuoteName, nil
	}
	if calculation != nil {
		return calculation.SelectedQuoteName, nil
	}
	return "", nil
}

// GetLumpSumSelection compares the requested lump sum of the selected quote against its maximum.
func (s *quoteSelectionService) GetLumpSumSelection(ctx context.Context, calculation *domain.Calculation) (*domain.LumpSumSelection, error) {
	if calculation == nil || calculation.QuotesJSONV2 == "" {
		return nil, nil
	}
	name, err := s.GetSelectedQuoteName(ctx, calculation.BusinessGroup, calculation.ReferenceNumber, calculation)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	quotes, err := domain.ParseRetirementQuotes(calculation.QuotesJSONV2)
	if err != nil {
		return nil, err
	}
	option, ok := quotes.Options[name]
	if !ok {
		s.LogDebug(ctx, "Selected quote not present in calculation", append(memberAttrs(calculation.BusinessGroup, calculation.ReferenceNumber), "quote_name", name)...)
		return nil, nil
	}

	requested := option.TotalLumpSum
	if calculation.EnteredLumpSum != nil {
		requested = *calculation.EnteredLumpSum
	}
	return &domain.LumpSumSelection{
		QuoteName:            name,
		RequestedLumpSum:     requested,
		MaximumPermittedLump: option.MaximumPermittedTotalLumpSum,
	}, nil
}
