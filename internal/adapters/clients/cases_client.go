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

// Case groups understood by the case management API.
const (
	caseGroupRetirementOrTransfer = "retirement-or-transfer"
	caseGroupDeath                = "death"
)

// CasesClient reads member cases from the case management API.
type CasesClient struct {
	http httpClient
}

func NewCasesClient(client *fasthttp.Client, baseURL string, timeout time.Duration) *CasesClient {
	return &CasesClient{http: newHTTPClient(client, baseURL, timeout)}
}

var _ portsclients.CasesClient = (*CasesClient)(nil)

func (c *CasesClient) GetRetirementOrTransferCases(ctx context.Context, businessGroup, referenceNumber string) ([]domain.CaseSummary, error) {
	return c.cases(ctx, "cases.GetRetirementOrTransferCases", businessGroup, referenceNumber, caseGroupRetirementOrTransfer)
}

func (c *CasesClient) GetDeathCases(ctx context.Context, businessGroup, referenceNumber string) ([]domain.CaseSummary, error) {
	return c.cases(ctx, "cases.GetDeathCases", businessGroup, referenceNumber, caseGroupDeath)
}

// cases treats a member unknown to the case API as one with no cases.
func (c *CasesClient) cases(ctx context.Context, operation, businessGroup, referenceNumber, group string) ([]domain.CaseSummary, error) {
	query := url.Values{}
	query.Set("group", group)
	body, status, err := c.http.get(ctx, operation, memberPath(businessGroup, referenceNumber)+"/cases", query)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if status == fasthttp.StatusNoContent || isEmptyBody(body) {
		return nil, nil
	}
	var cases []domain.CaseSummary
	if err := json.Unmarshal(body, &cases); err != nil {
		return nil, fmt.Errorf("failed to decode %s cases: %w", group, err)
	}
	return cases, nil
}
