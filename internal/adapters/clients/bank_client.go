package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// BankClient reads the member's bank account from the bank service.
type BankClient struct {
	http httpClient
}

func NewBankClient(client *fasthttp.Client, baseURL string, timeout time.Duration) *BankClient {
	return &BankClient{http: newHTTPClient(client, baseURL, timeout)}
}

var _ portsclients.BankService = (*BankClient)(nil)

// FetchBankAccount returns an APIError wrapping apperrors.ErrNotFound when no account is held.
func (c *BankClient) FetchBankAccount(ctx context.Context, businessGroup, referenceNumber string) (*domain.BankAccount, error) {
	body, status, err := c.http.get(ctx, "bank.FetchBankAccount", memberPath(businessGroup, referenceNumber)+"/bank-account", nil)
	if err != nil {
		return nil, err
	}
	if status == fasthttp.StatusNoContent || isEmptyBody(body) {
		return nil, nil
	}
	var account domain.BankAccount
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to decode bank account: %w", err)
	}
	return &account, nil
}
