package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UKBankCountryCode is the country code of UK bank accounts.
const UKBankCountryCode = "GB"

// BankAccount is the member's pension payment account.
type BankAccount struct {
	AccountName     string `json:"accountName"`
	BankCountryCode string `json:"bankCountryCode"`
	BankName        string `json:"bankName"`
}

// IsNonUK reports whether the account is held with a bank outside the UK.
func (b *BankAccount) IsNonUK() bool {
	code := strings.ToUpper(strings.TrimSpace(b.BankCountryCode))
	return code != "" && code != UKBankCountryCode
}

// InternalBalance is the member's DC fund value held by the investment platform.
type InternalBalance struct {
	TotalValue decimal.Decimal `json:"totalValue"`
}

// QuoteSelectionJourney records the quote a member chose during a retirement journey.
type QuoteSelectionJourney struct {
	BusinessGroup     string
	ReferenceNumber   string
	SelectedQuoteName string
	CreatedAt         time.Time
}

// JourneySubmission is the member-store record written when a journey is submitted.
type JourneySubmission struct {
	BusinessGroup   string
	ReferenceNumber string
	JourneyID       string
	JourneyType     string
	SubmittedAt     time.Time
}
