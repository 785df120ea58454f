package dto

import (
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// MemberRef identifies the member a request acts for. It is built from the token claims.
type MemberRef struct {
	BusinessGroup   string `json:"businessGroup" binding:"required,bgroup"`
	ReferenceNumber string `json:"referenceNumber" binding:"required,alphanum,max=10"`
}

// JourneyTypeURI binds the journey type path parameter.
type JourneyTypeURI struct {
	Type string `uri:"type" binding:"required,alphanum,lowercase,max=50"`
}

// StartJourneyRequest defines data for starting a journey.
type StartJourneyRequest struct {
	StartPageKey string `json:"startPageKey" binding:"required,max=100"`
}

// SubmitStepRequest defines data for completing the current journey step.
type SubmitStepRequest struct {
	CurrentPageKey string `json:"currentPageKey" binding:"required,max=100"`
	NextPageKey    string `json:"nextPageKey" binding:"required,max=100"`
	QuestionKey    string `json:"questionKey" binding:"omitempty,max=100"`
	AnswerKey      string `json:"answerKey" binding:"required_with=QuestionKey,omitempty,max=100"`
	AnswerValue    string `json:"answerValue" binding:"omitempty,max=500"`
}

// Question returns the question form carried by the request, or nil.
func (r SubmitStepRequest) Question() *domain.QuestionForm {
	if r.QuestionKey == "" {
		return nil
	}
	return &domain.QuestionForm{QuestionKey: r.QuestionKey, AnswerKey: r.AnswerKey, AnswerValue: r.AnswerValue}
}

// RewindJourneyRequest defines the page to reopen.
type RewindJourneyRequest struct {
	PageKey string `json:"pageKey" binding:"required,max=100"`
}

// SaveGenericDataRequest defines a document to store against a journey step.
type SaveGenericDataRequest struct {
	PageKey         string `json:"pageKey" binding:"required,max=100"`
	FormKey         string `json:"formKey" binding:"required,max=100"`
	GenericDataJSON string `json:"genericDataJson" binding:"required,json"`
}

// JourneyStepResponse defines data returned for a journey step.
type JourneyStepResponse struct {
	CurrentPageKey string     `json:"currentPageKey"`
	NextPageKey    string     `json:"nextPageKey,omitempty"`
	SubmittedDate  *time.Time `json:"submittedDate,omitempty"`
	QuestionKey    string     `json:"questionKey,omitempty"`
	AnswerKey      string     `json:"answerKey,omitempty"`
}

// JourneyResponse defines data returned for a journey.
type JourneyResponse struct {
	ID             string                `json:"id"`
	Type           string                `json:"type"`
	Status         string                `json:"status"`
	StartDate      time.Time             `json:"startDate"`
	ExpirationDate *time.Time            `json:"expirationDate,omitempty"`
	SubmissionDate *time.Time            `json:"submissionDate,omitempty"`
	CurrentPageKey string                `json:"currentPageKey"`
	Steps          []JourneyStepResponse `json:"steps"`
}

// ToJourneyResponse converts domain.Journey to DTO, listing the steps of the active branch.
func ToJourneyResponse(j *domain.Journey) JourneyResponse {
	steps := j.Steps()
	res := JourneyResponse{
		ID:             j.ID,
		Type:           j.Type,
		Status:         j.Status,
		StartDate:      j.StartDate,
		ExpirationDate: j.ExpirationDate,
		SubmissionDate: j.SubmissionDate,
		Steps:          make([]JourneyStepResponse, len(steps)),
	}
	if current := j.CurrentStep(); current != nil {
		res.CurrentPageKey = current.CurrentPageKey
	}
	for i, s := range steps {
		res.Steps[i] = JourneyStepResponse{
			CurrentPageKey: s.CurrentPageKey,
			NextPageKey:    s.NextPageKey,
			SubmittedDate:  s.SubmittedDate,
		}
		if s.Question != nil {
			res.Steps[i].QuestionKey = s.Question.QuestionKey
			res.Steps[i].AnswerKey = s.Question.AnswerKey
		}
	}
	return res
}
