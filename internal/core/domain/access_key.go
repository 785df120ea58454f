package domain

import (
	"strings"

	"github.com/goccy/go-json"
)

// AccessKey summarises a member's eligibility and journey state for content personalisation.
// Field order is the serialised key order.
type AccessKey struct {
	TenantURL                   string   `json:"tenantUrl"`
	IsCalculationSuccessful     bool     `json:"isCalculationSuccessful"`
	HasAdditionalContributions  bool     `json:"hasAdditionalContributions"`
	SchemeType                  string   `json:"schemeType"`
	MemberStatus                string   `json:"memberStatus"`
	LifeStage                   string   `json:"lifeStage"`
	RetirementApplicationStatus string   `json:"retirementApplicationStatus"`
	TransferApplicationStatus   string   `json:"transferApplicationStatus"`
	WordingFlags                []string `json:"wordingFlags"`
	CurrentAge                  string   `json:"currentAge"`
	DbCalculationStatus         string   `json:"dbCalculationStatus"`
	DcLifeStage                 string   `json:"dcLifeStage"`
	IsWebChatEnabled            bool     `json:"isWebChatEnabled"`
	HasProtectedQuote           bool     `json:"hasProtectedQuote"`
	NumberOfProtectedQuotes     int      `json:"numberOfProtectedQuotes"`
}

// JSON serialises the access key.
func (k *AccessKey) JSON() (string, error) {
	if k.WordingFlags == nil {
		k.WordingFlags = []string{}
	}
	b, err := json.Marshal(k)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseAccessKey decodes a serialised access key. Empty or malformed input yields nil.
func ParseAccessKey(raw string) *AccessKey {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var key AccessKey
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return nil
	}
	return &key
}

// DcJourneyStatusFromFlags finds the most advanced DC journey state among the wording flags.
// Submitted beats Started, which beats ExploreOptions. Nil means no DC journey flag is present.
func DcJourneyStatusFromFlags(flags []string) *DcJourneyStatus {
	if flags == nil {
		return nil
	}
	var submitted, started, exploring bool
	for _, f := range flags {
		flag := strings.ToLower(f)
		switch {
		case flag == JourneyTypeDcRetirementApplication+"-"+strings.ToLower(JourneyStatusSubmitted):
			submitted = true
		case flag == JourneyTypeDcRetirementApplication+"-"+strings.ToLower(JourneyStatusStarted):
			started = true
		case strings.HasPrefix(flag, JourneyTypeDcExploreOptions+"-"):
			exploring = true
		}
	}
	var status DcJourneyStatus
	switch {
	case submitted:
		status = DcJourneySubmitted
	case started:
		status = DcJourneyStarted
	case exploring:
		status = DcJourneyExploreOptions
	default:
		return nil
	}
	return &status
}

// DcLifeStageLabel renders the DC life stage reported on the access key.
func DcLifeStageLabel(journeyStatus *DcJourneyStatus, lifeStage LifeStage) string {
	if journeyStatus != nil {
		switch *journeyStatus {
		case DcJourneySubmitted:
			return "submitted"
		case DcJourneyStarted:
			return "started"
		case DcJourneyExploreOptions:
			return "exploringOptions"
		}
	}
	if lifeStage == "" || lifeStage == LifeStageUndefined {
		return DcLifeStageUndefined
	}
	s := string(lifeStage)
	return strings.ToLower(s[:1]) + s[1:]
}

// AccessKeyRequest carries everything needed to build a member's access key.
type AccessKeyRequest struct {
	Member                  *Member
	UserID                  string
	TenantURL               string
	PreRetirementAgePeriod  int
	NewlyRetiredRange       int
	ClassifierValues        []ClassifierValue
	UseBasicMode            bool
	UseSingleAuth           bool
	SingleAuthClaim         *SingleAuthClaim
	IsWebChatEnabled        bool
	GuaranteedQuotesEnabled bool
}

// NewAccessKeyRequest starts a request from the member's tenant settings.
func NewAccessKeyRequest(member *Member, tenant *TenantSettings, userID string) AccessKeyRequest {
	return AccessKeyRequest{
		Member:                  member,
		UserID:                  userID,
		TenantURL:               tenant.TenantURL,
		PreRetirementAgePeriod:  tenant.PreRetirementAgePeriod,
		NewlyRetiredRange:       tenant.NewlyRetiredRange,
		ClassifierValues:        tenant.ClassifierValues,
		IsWebChatEnabled:        tenant.IsWebChatEnabled,
		GuaranteedQuotesEnabled: tenant.GuaranteedQuotesEnabled,
	}
}

// SingleAuthClaim is the identity resolved from the single sign-on token.
type SingleAuthClaim struct {
	SubjectID string
}

// LinkedRecord is a member record reachable through single sign-on.
type LinkedRecord struct {
	BusinessGroup   string `json:"businessGroup"`
	ReferenceNumber string `json:"referenceNumber"`
}

// TenantSettings is the per business group configuration held in the mdp store.
type TenantSettings struct {
	BusinessGroup           string
	TenantURL               string
	PreRetirementAgePeriod  int
	NewlyRetiredRange       int
	IsWebChatEnabled        bool
	GuaranteedQuotesEnabled bool
	ClassifierValues        []ClassifierValue
}
