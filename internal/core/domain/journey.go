package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/goccy/go-json"
)

// Journey types known to the access key derivation.
const (
	JourneyTypeTransfer                    = "transfer"
	JourneyTypeDcRetirementApplication     = "dcretirementapplication"
	JourneyTypeDbCoreRetirementApplication = "dbcoreretirementapplication"
	JourneyTypeDcExploreOptions            = "dcexploreoptions"
	JourneyTypeRequestQuote                = "requestquote"
)

// Journey statuses.
const (
	JourneyStatusStarted   = "Started"
	JourneyStatusSubmitted = "Submitted"
)

// Generic data form keys.
const (
	FormKeyJourneySubmissionDetails = "JourneySubmissionDetails"
	FormKeySelectedQuoteDetails     = "SelectedQuoteDetails"
	FormKeySelectedRetirementDate   = "SelectedRetirementDate"
)

// StepRetentionWindow is how long an identity verification step stays valid after submission.
const StepRetentionWindow = 30 * 24 * time.Hour

// IdentityVerificationPagePrefix marks pages of the identity verification (GBG) check.
const IdentityVerificationPagePrefix = "gbg"

// Journey is one member's run through a multi-step application.
type Journey struct {
	ID                 string          `json:"id"`
	BusinessGroup      string          `json:"businessGroup"`
	ReferenceNumber    string          `json:"referenceNumber"`
	Type               string          `json:"type"`
	Status             string          `json:"status"`
	StartDate          time.Time       `json:"startDate"`
	ExpirationDate     *time.Time      `json:"expirationDate,omitempty"`
	SubmissionDate     *time.Time      `json:"submissionDate,omitempty"`
	IsMarkedForRemoval bool            `json:"isMarkedForRemoval"`
	WordingFlags       []string        `json:"wordingFlags"`
	Branches           []JourneyBranch `json:"branches"`
}

// JourneyBranch is one path taken through the journey. Exactly one branch is active.
type JourneyBranch struct {
	Number   int           `json:"number"`
	IsActive bool          `json:"isActive"`
	Steps    []JourneyStep `json:"steps"`
}

// JourneyStep is a page visited within a branch. The last step of the active branch is the
// current, unsubmitted step.
type JourneyStep struct {
	CurrentPageKey string               `json:"currentPageKey"`
	NextPageKey    string               `json:"nextPageKey,omitempty"`
	SubmittedDate  *time.Time           `json:"submittedDate,omitempty"`
	Question       *QuestionForm        `json:"question,omitempty"`
	GenericData    []JourneyGenericData `json:"genericData,omitempty"`
}

// QuestionForm records the answer a member gave on a branching page.
type QuestionForm struct {
	QuestionKey string `json:"questionKey"`
	AnswerKey   string `json:"answerKey"`
	AnswerValue string `json:"answerValue,omitempty"`
}

// JourneyGenericData is a free-form JSON document saved against a step.
type JourneyGenericData struct {
	FormKey         string `json:"formKey"`
	GenericDataJSON string `json:"genericDataJson"`
}

// IsSubmitted reports whether the step has been completed.
func (s *JourneyStep) IsSubmitted() bool {
	return s.SubmittedDate != nil
}

// IsSubmitted reports whether the whole journey has been submitted.
func (j *Journey) IsSubmitted() bool {
	return j.SubmissionDate != nil
}

// IsCurrentStepSubmitted reports whether the last step of the active branch has been completed.
func (j *Journey) IsCurrentStepSubmitted() bool {
	step := j.CurrentStep()
	return step != nil && step.IsSubmitted()
}

// IsExpired reports whether the journey's expiration date has passed. Journeys without one never expire.
func (j *Journey) IsExpired(now time.Time) bool {
	return j.ExpirationDate != nil && now.After(*j.ExpirationDate)
}

// IsActive reports whether the journey is neither submitted, expired nor marked for removal.
func (j *Journey) IsActive(now time.Time) bool {
	return !j.IsSubmitted() && !j.IsExpired(now) && !j.IsMarkedForRemoval
}

func (j *Journey) activeBranch() *JourneyBranch {
	for i := range j.Branches {
		if j.Branches[i].IsActive {
			return &j.Branches[i]
		}
	}
	if len(j.Branches) == 0 {
		return nil
	}
	return &j.Branches[len(j.Branches)-1]
}

// Steps returns the steps of the active branch in visiting order.
func (j *Journey) Steps() []JourneyStep {
	branch := j.activeBranch()
	if branch == nil {
		return nil
	}
	return branch.Steps
}

// CurrentStep returns the last step of the active branch.
func (j *Journey) CurrentStep() *JourneyStep {
	branch := j.activeBranch()
	if branch == nil || len(branch.Steps) == 0 {
		return nil
	}
	return &branch.Steps[len(branch.Steps)-1]
}

// FindStep looks a step up by page key within the active branch.
func (j *Journey) FindStep(pageKey string) *JourneyStep {
	branch := j.activeBranch()
	if branch == nil {
		return nil
	}
	for i := range branch.Steps {
		if branch.Steps[i].CurrentPageKey == pageKey {
			return &branch.Steps[i]
		}
	}
	return nil
}

// TrySubmitStep completes the current step and opens the next page. The journey is left unchanged
// unless currentPageKey names the current, unsubmitted step.
func (j *Journey) TrySubmitStep(currentPageKey, nextPageKey string, now time.Time, question *QuestionForm) error {
	if j.IsSubmitted() {
		return apperrors.ErrJourneySubmitted
	}
	if nextPageKey == "" {
		return fmt.Errorf("%w: next page key is required", apperrors.ErrValidation)
	}
	branch := j.activeBranch()
	if branch == nil || len(branch.Steps) == 0 {
		return apperrors.ErrStepNotFound
	}
	current := &branch.Steps[len(branch.Steps)-1]
	if current.CurrentPageKey != currentPageKey || current.IsSubmitted() {
		return fmt.Errorf("%w: %s is not the current page", apperrors.ErrStepNotFound, currentPageKey)
	}

	submitted := now
	current.NextPageKey = nextPageKey
	current.SubmittedDate = &submitted
	current.Question = question
	branch.Steps = append(branch.Steps, JourneyStep{CurrentPageKey: nextPageKey})
	return nil
}

// TryRewindTo reopens an earlier page on a new branch. The abandoned branch is kept inactive.
func (j *Journey) TryRewindTo(pageKey string) error {
	if j.IsSubmitted() {
		return apperrors.ErrJourneySubmitted
	}
	branch := j.activeBranch()
	if branch == nil {
		return apperrors.ErrStepNotFound
	}
	idx := -1
	for i := range branch.Steps {
		if branch.Steps[i].CurrentPageKey == pageKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrStepNotFound, pageKey)
	}
	if idx == len(branch.Steps)-1 {
		return nil
	}

	steps := make([]JourneyStep, 0, idx+1)
	for _, s := range branch.Steps[:idx] {
		steps = append(steps, s.clone())
	}
	steps = append(steps, JourneyStep{CurrentPageKey: pageKey})

	number := len(j.Branches) + 1
	for i := range j.Branches {
		j.Branches[i].IsActive = false
	}
	j.Branches = append(j.Branches, JourneyBranch{Number: number, IsActive: true, Steps: steps})
	return nil
}

// SubmitJourney marks the journey, and the page it was submitted from, as complete.
func (j *Journey) SubmitJourney(now time.Time) error {
	if j.IsSubmitted() {
		return apperrors.ErrJourneySubmitted
	}
	if j.IsExpired(now) {
		return apperrors.ErrJourneyExpired
	}
	submitted := now
	if step := j.CurrentStep(); step != nil && !step.IsSubmitted() {
		stepSubmitted := now
		step.SubmittedDate = &stepSubmitted
	}
	j.SubmissionDate = &submitted
	j.Status = JourneyStatusSubmitted
	return nil
}

// SetStatus records a free-text status reported by the front end.
func (j *Journey) SetStatus(status string) {
	j.Status = status
}

// SetWordingFlags replaces the journey-level wording flags.
func (j *Journey) SetWordingFlags(flags []string) {
	j.WordingFlags = append([]string(nil), flags...)
}

// MarkForRemoval soft-deletes the journey.
func (j *Journey) MarkForRemoval() {
	j.IsMarkedForRemoval = true
}

// RenewExpiry moves the journey's expiration date.
func (j *Journey) RenewExpiry(expiry *time.Time) {
	j.ExpirationDate = expiry
}

// UpdateGenericData stores a document against the step for pageKey, replacing any with the same form key.
func (j *Journey) UpdateGenericData(pageKey, formKey, genericDataJSON string) error {
	step := j.FindStep(pageKey)
	if step == nil {
		return fmt.Errorf("%w: %s", apperrors.ErrStepNotFound, pageKey)
	}
	for i := range step.GenericData {
		if step.GenericData[i].FormKey == formKey {
			step.GenericData[i].GenericDataJSON = genericDataJSON
			return nil
		}
	}
	step.GenericData = append(step.GenericData, JourneyGenericData{FormKey: formKey, GenericDataJSON: genericDataJSON})
	return nil
}

// AppendGenericDataList adds documents to the step for pageKey without replacing existing ones.
func (j *Journey) AppendGenericDataList(pageKey string, data []JourneyGenericData) error {
	step := j.FindStep(pageKey)
	if step == nil {
		return fmt.Errorf("%w: %s", apperrors.ErrStepNotFound, pageKey)
	}
	step.GenericData = append(step.GenericData, data...)
	return nil
}

// GetGenericData returns the most recently saved document for formKey on the active branch.
func (j *Journey) GetGenericData(formKey string) *JourneyGenericData {
	steps := j.Steps()
	for i := len(steps) - 1; i >= 0; i-- {
		data := steps[i].GenericData
		for k := len(data) - 1; k >= 0; k-- {
			if data[k].FormKey == formKey {
				return &data[k]
			}
		}
	}
	return nil
}

// SelectedRetirementDate reads the retirement date recorded on the journey, if any.
func (j *Journey) SelectedRetirementDate() *time.Time {
	data := j.GetGenericData(FormKeySelectedRetirementDate)
	if data == nil {
		return nil
	}
	var payload struct {
		RetirementDate *time.Time `json:"retirementDate"`
	}
	if err := json.Unmarshal([]byte(data.GenericDataJSON), &payload); err != nil {
		return nil
	}
	return payload.RetirementDate
}

// QuestionAnswerFlags returns "{questionKey}-{answerKey}" for each submitted step that carries an answer.
func (j *Journey) QuestionAnswerFlags() []string {
	var flags []string
	for _, s := range j.Steps() {
		if !s.IsSubmitted() || s.Question == nil {
			continue
		}
		if s.Question.QuestionKey == "" || s.Question.AnswerKey == "" {
			continue
		}
		flags = append(flags, s.Question.QuestionKey+"-"+s.Question.AnswerKey)
	}
	return flags
}

// RemoveStaleVerificationSteps drops an identity verification step submitted longer ago than
// StepRetentionWindow together with every later step, reopening the verification page.
func (j *Journey) RemoveStaleVerificationSteps(now time.Time) bool {
	branch := j.activeBranch()
	if branch == nil || j.IsSubmitted() {
		return false
	}
	cutoff := now.Add(-StepRetentionWindow)
	for i, s := range branch.Steps {
		if !strings.HasPrefix(strings.ToLower(s.CurrentPageKey), IdentityVerificationPagePrefix) {
			continue
		}
		if s.SubmittedDate == nil || !s.SubmittedDate.Before(cutoff) {
			continue
		}
		branch.Steps = append(branch.Steps[:i:i], JourneyStep{CurrentPageKey: s.CurrentPageKey})
		return true
	}
	return false
}

func (s JourneyStep) clone() JourneyStep {
	c := s
	if s.SubmittedDate != nil {
		d := *s.SubmittedDate
		c.SubmittedDate = &d
	}
	if s.Question != nil {
		q := *s.Question
		c.Question = &q
	}
	c.GenericData = append([]JourneyGenericData(nil), s.GenericData...)
	return c
}
