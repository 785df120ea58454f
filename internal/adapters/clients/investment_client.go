package clients

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// InvestmentClient reads DC fund balances from the investment platform.
type InvestmentClient struct {
	http httpClient
}

func NewInvestmentClient(client *fasthttp.Client, baseURL string, timeout time.Duration) *InvestmentClient {
	return &InvestmentClient{http: newHTTPClient(client, baseURL, timeout)}
}

var _ portsclients.InvestmentServiceClient = (*InvestmentClient)(nil)

func (c *InvestmentClient) GetInternalBalance(ctx context.Context, businessGroup, referenceNumber, schemeCode, category string) (*domain.InternalBalance, error) {
	query := url.Values{}
	query.Set("schemeCode", schemeCode)
	query.Set("category", category)
	body, status, err := c.http.get(ctx, "investment.GetInternalBalance", memberPath(businessGroup, referenceNumber)+"/internal-balance", query)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if status == fasthttp.StatusNoContent || isEmptyBody(body) {
		return nil, nil
	}
	var balance domain.InternalBalance
	if err := json.Unmarshal(body, &balance); err != nil {
		return nil, fmt.Errorf("failed to decode internal balance: %w", err)
	}
	return &balance, nil
}
