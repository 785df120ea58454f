package domain

import (
	"strings"
	"time"
)

// Case codes raised by the case management system.
const (
	CaseCodeRetirementQuote            = "RTQ9"
	CaseCodeTransferQuote              = "TOQ9"
	CaseCodePaperRetirementApplication = "RTP9"
	CaseCodePaperTransferApplication   = "TOP9"
	CaseCodeDeathNotification          = "DDR9"
)

// RetirementQuoteCaseLimit is the number of open retirement quote cases a member may hold.
const RetirementQuoteCaseLimit = 5

var closedCaseStatuses = map[string]bool{
	"complete":  true,
	"completed": true,
	"closed":    true,
	"cancelled": true,
	"abandoned": true,
}

// CaseSummary is one case as reported by the case management API.
type CaseSummary struct {
	CaseNumber     string     `json:"caseNumber"`
	CaseCode       string     `json:"caseCode"`
	CaseStatus     string     `json:"caseStatus"`
	CreationDate   *time.Time `json:"creationDate,omitempty"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

// IsOpen reports whether the case is still being worked.
func (c CaseSummary) IsOpen() bool {
	return !closedCaseStatuses[strings.ToLower(strings.TrimSpace(c.CaseStatus))]
}

// RetirementOrTransferCaseFlags derives the quote and paper application flags from open cases.
func RetirementOrTransferCaseFlags(cases []CaseSummary) []string {
	var retirementQuotes, transferQuotes int
	var paperRetirement, paperTransfer bool
	for _, c := range cases {
		if !c.IsOpen() {
			continue
		}
		switch strings.ToUpper(c.CaseCode) {
		case CaseCodeRetirementQuote:
			retirementQuotes++
		case CaseCodeTransferQuote:
			transferQuotes++
		case CaseCodePaperRetirementApplication:
			paperRetirement = true
		case CaseCodePaperTransferApplication:
			paperTransfer = true
		}
	}

	var flags []string
	if retirementQuotes+transferQuotes > 0 {
		flags = append(flags, "QUOTE_CASES_AVAILABLE")
	}
	overRetirementLimit := retirementQuotes >= RetirementQuoteCaseLimit
	if overRetirementLimit {
		flags = append(flags, "overTheRetirementQuoteLimit")
	}
	if overRetirementLimit && transferQuotes >= 1 {
		flags = append(flags, "overTheTransferQuoteLimit")
	}
	if paperRetirement {
		flags = append(flags, "PaperRetirementApplicationInProgress")
	}
	if paperTransfer {
		flags = append(flags, "PaperTransferApplicationInProgress")
	}
	return flags
}

// DeathCasesWordingFlag maps a member status code and death case code to its wording flag.
func DeathCasesWordingFlag(statusCode, caseCode string) string {
	if statusCode == "AB" && caseCode == CaseCodeDeathNotification {
		return "HASDTH"
	}
	return ""
}
