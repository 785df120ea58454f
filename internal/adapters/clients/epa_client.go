package clients

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// EpaClient evaluates web rules through the EPA rule engine.
type EpaClient struct {
	http httpClient
}

func NewEpaClient(client *fasthttp.Client, baseURL string, timeout time.Duration) *EpaClient {
	return &EpaClient{http: newHTTPClient(client, baseURL, timeout)}
}

var _ portsclients.EpaServiceClient = (*EpaClient)(nil)

func (c *EpaClient) GetWebRuleResult(ctx context.Context, businessGroup, referenceNumber, userID, ruleID string, useCache bool) (*domain.WebRuleResult, error) {
	query := url.Values{}
	query.Set("userId", userID)
	query.Set("cache", strconv.FormatBool(useCache))
	path := memberPath(businessGroup, referenceNumber) + "/web-rules/" + url.PathEscape(ruleID)
	body, status, err := c.http.get(ctx, "epa.GetWebRuleResult", path, query)
	if err != nil {
		return nil, err
	}
	if status == fasthttp.StatusNoContent || isEmptyBody(body) {
		return nil, nil
	}
	var result domain.WebRuleResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode web rule %s: %w", ruleID, err)
	}
	return &result, nil
}
