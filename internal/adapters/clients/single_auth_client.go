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

// SingleAuthClient resolves the member records linked to a single sign-on subject.
type SingleAuthClient struct {
	http httpClient
}

func NewSingleAuthClient(client *fasthttp.Client, baseURL string, timeout time.Duration) *SingleAuthClient {
	return &SingleAuthClient{http: newHTTPClient(client, baseURL, timeout)}
}

var _ portsclients.SingleAuthService = (*SingleAuthClient)(nil)

type linkedRecordsResponse struct {
	Records []domain.LinkedRecord `json:"records"`
}

func (c *SingleAuthClient) GetLinkedRecords(ctx context.Context, claim domain.SingleAuthClaim, businessGroup string) ([]domain.LinkedRecord, error) {
	if claim.SubjectID == "" {
		return nil, fmt.Errorf("single auth claim has no subject: %w", apperrors.ErrValidation)
	}
	query := url.Values{}
	query.Set("businessGroup", businessGroup)
	body, status, err := c.http.get(ctx, "singleauth.GetLinkedRecords", "/subjects/"+url.PathEscape(claim.SubjectID)+"/linked-records", query)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if status == fasthttp.StatusNoContent || isEmptyBody(body) {
		return nil, nil
	}
	var resp linkedRecordsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode linked records: %w", err)
	}
	return resp.Records, nil
}
