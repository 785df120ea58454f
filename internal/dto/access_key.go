package dto

import (
	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// AccessKeyQuery binds the optional access key build switches.
type AccessKeyQuery struct {
	Basic bool `form:"basic"`
}

// AccessKeyResponse wraps the serialised access key alongside its decoded form.
type AccessKeyResponse struct {
	AccessKey string            `json:"accessKey"`
	Decoded   *domain.AccessKey `json:"decoded,omitempty"`
}

// DcJourneyStatusResponse reports the member's most advanced DC journey state.
type DcJourneyStatusResponse struct {
	Status *domain.DcJourneyStatus `json:"status"`
}
