package domain

import "time"

// TransferApplicationStatus tracks a member's online transfer application.
type TransferApplicationStatus string

const (
	TAUndefined     TransferApplicationStatus = "Undefined"
	TANotStarted    TransferApplicationStatus = "NotStartedTA"
	TAStarted       TransferApplicationStatus = "StartedTA"
	TASubmitStarted TransferApplicationStatus = "SubmitStarted"
	TASubmitted     TransferApplicationStatus = "SubmittedTA"
)

// TransferCalculation is the member's cached transfer quote.
type TransferCalculation struct {
	ID                int64
	BusinessGroup     string
	ReferenceNumber   string
	TransferQuoteJSON string
	LockTransferQuote bool
	Status            TransferApplicationStatus
	CreatedAt         time.Time
	LastUpdatedAt     time.Time
}

// HasQuote reports whether a transfer quote has been produced.
func (t *TransferCalculation) HasQuote() bool {
	return t.TransferQuoteJSON != ""
}

// ApplicationStatus returns the stored status, treating an unset one as not started.
func (t *TransferCalculation) ApplicationStatus() TransferApplicationStatus {
	if t.Status == "" {
		return TANotStarted
	}
	return t.Status
}

// SetStatus moves the application status and locks the quote once submission has begun.
func (t *TransferCalculation) SetStatus(status TransferApplicationStatus, now time.Time) {
	t.Status = status
	if status == TASubmitStarted || status == TASubmitted {
		t.LockTransferQuote = true
	}
	t.LastUpdatedAt = now
}

// TransferApplicationStatusOf returns the status for a possibly missing transfer calculation.
func TransferApplicationStatusOf(t *TransferCalculation) TransferApplicationStatus {
	if t == nil {
		return TAUndefined
	}
	return t.ApplicationStatus()
}
