package clients

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// CalculationsClient talks to the retirement calculation API.
type CalculationsClient struct {
	http httpClient
}

// NewCalculationsClient creates a calculation API client rooted at baseURL.
func NewCalculationsClient(client *fasthttp.Client, baseURL string, timeout time.Duration) *CalculationsClient {
	return &CalculationsClient{http: newHTTPClient(client, baseURL, timeout)}
}

var _ portsclients.CalculationsClient = (*CalculationsClient)(nil)

func (c *CalculationsClient) RetirementDatesAges(ctx context.Context, businessGroup, referenceNumber string) (*domain.RetirementDatesAges, error) {
	body, _, err := c.http.get(ctx, "calculations.RetirementDatesAges", memberPath(businessGroup, referenceNumber)+"/retirement-dates-ages", nil)
	if err != nil {
		return nil, err
	}
	return domain.ParseRetirementDatesAges(string(body))
}

// retirementV2Response is decoded only to classify the answer; the whole body is kept as the
// retirement payload.
type retirementV2Response struct {
	EventType     string          `json:"eventType"`
	Retirement    json.RawMessage `json:"retirement"`
	Quotes        json.RawMessage `json:"quotes"`
	EffectiveDate *time.Time      `json:"effectiveDate"`
}

func (c *CalculationsClient) RetirementCalculationV2(ctx context.Context, businessGroup, referenceNumber string, effectiveDate time.Time) (*domain.RetirementCalculationResult, error) {
	query := url.Values{}
	query.Set("effectiveDate", effectiveDate.Format(time.DateOnly))
	body, status, err := c.http.get(ctx, "calculations.RetirementCalculationV2", memberPath(businessGroup, referenceNumber)+"/retirement/v2", query)
	if err != nil {
		return nil, err
	}
	if status == fasthttp.StatusNoContent || isEmptyBody(body) {
		return &domain.RetirementCalculationResult{EventType: domain.CalculationStatusNoFigures}, nil
	}

	var resp retirementV2Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode retirement calculation: %w", err)
	}
	if isEmptyBody(resp.Retirement) {
		return &domain.RetirementCalculationResult{EventType: domain.CalculationStatusNoFigures}, nil
	}
	result := &domain.RetirementCalculationResult{
		EventType:      resp.EventType,
		RetirementJSON: string(body),
		EffectiveDate:  resp.EffectiveDate,
	}
	if !isEmptyBody(resp.Quotes) {
		result.QuotesJSON = string(resp.Quotes)
	}
	return result, nil
}

type guaranteedQuotesResponse struct {
	Quotations []domain.GuaranteedQuote `json:"quotations"`
}

func (c *CalculationsClient) GetGuaranteedQuotes(ctx context.Context, businessGroup, referenceNumber string) ([]domain.GuaranteedQuote, error) {
	body, status, err := c.http.get(ctx, "calculations.GetGuaranteedQuotes", memberPath(businessGroup, referenceNumber)+"/guaranteed-quotes", nil)
	if err != nil {
		return nil, err
	}
	if status == fasthttp.StatusNoContent || isEmptyBody(body) {
		return nil, nil
	}
	var resp guaranteedQuotesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode guaranteed quotes: %w", err)
	}
	return resp.Quotations, nil
}
