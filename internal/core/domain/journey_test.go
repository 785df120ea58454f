package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var journeyStart = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func newTestJourney(t *testing.T, journeyType string) *domain.Journey {
	t.Helper()
	j, err := domain.CreateJourney(journeyType, "RBS", "1234567", "hub", journeyStart, nil)
	require.NoError(t, err)
	return j
}

func TestJourney_TrySubmitStep(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeDbCoreRetirementApplication)

	err := j.TrySubmitStep("hub", "step_2", journeyStart.Add(time.Hour), nil)
	require.NoError(t, err)

	steps := j.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "step_2", steps[0].NextPageKey)
	assert.True(t, steps[0].IsSubmitted())
	assert.Equal(t, "step_2", j.CurrentStep().CurrentPageKey)
	assert.False(t, j.CurrentStep().IsSubmitted())
}

func TestJourney_TrySubmitStep_MismatchedKeyLeavesJourneyUnchanged(t *testing.T) {
	tests := []struct {
		name       string
		currentKey string
	}{
		{name: "unknown page", currentKey: "nowhere"},
		{name: "already submitted page", currentKey: "hub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newTestJourney(t, domain.JourneyTypeTransfer)
			require.NoError(t, j.TrySubmitStep("hub", "step_2", journeyStart, nil))
			before := len(j.Steps())

			err := j.TrySubmitStep(tt.currentKey, "step_3", journeyStart, nil)

			assert.ErrorIs(t, err, apperrors.ErrStepNotFound)
			assert.Len(t, j.Steps(), before)
		})
	}
}

func TestJourney_TrySubmitStep_RecordsQuestion(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeDbCoreRetirementApplication)
	q := &domain.QuestionForm{QuestionKey: "lumpSum", AnswerKey: "yes", AnswerValue: "true"}

	require.NoError(t, j.TrySubmitStep("hub", "lump_sum_amount", journeyStart, q))
	require.NoError(t, j.TrySubmitStep("lump_sum_amount", "summary", journeyStart, nil))

	assert.Equal(t, []string{"lumpSum-yes"}, j.QuestionAnswerFlags())
}

func TestJourney_TrySubmitStep_SubmittedJourney(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeTransfer)
	require.NoError(t, j.SubmitJourney(journeyStart))

	err := j.TrySubmitStep("hub", "step_2", journeyStart, nil)

	assert.ErrorIs(t, err, apperrors.ErrJourneySubmitted)
}

func TestJourney_TryRewindTo(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeDbCoreRetirementApplication)
	q := &domain.QuestionForm{QuestionKey: "q1", AnswerKey: "a1"}
	require.NoError(t, j.TrySubmitStep("hub", "step_2", journeyStart, nil))
	require.NoError(t, j.TrySubmitStep("step_2", "step_3", journeyStart, q))
	require.NoError(t, j.TrySubmitStep("step_3", "step_4", journeyStart, nil))

	require.NoError(t, j.TryRewindTo("step_2"))

	require.Len(t, j.Branches, 2)
	assert.False(t, j.Branches[0].IsActive)
	assert.Len(t, j.Branches[0].Steps, 4)
	assert.True(t, j.Branches[1].IsActive)
	steps := j.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "step_2", j.CurrentStep().CurrentPageKey)
	assert.False(t, j.CurrentStep().IsSubmitted())
	assert.Empty(t, j.QuestionAnswerFlags())

	// new branch continues from the reopened page
	require.NoError(t, j.TrySubmitStep("step_2", "other_step", journeyStart, nil))
	assert.Equal(t, "other_step", j.CurrentStep().CurrentPageKey)
}

func TestJourney_TryRewindTo_UnknownPage(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeTransfer)

	err := j.TryRewindTo("missing")

	assert.ErrorIs(t, err, apperrors.ErrStepNotFound)
	assert.Len(t, j.Branches, 1)
}

func TestJourney_SubmitJourney(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(j *domain.Journey)
		now     time.Time
		wantErr error
	}{
		{
			name: "active journey",
			now:  journeyStart.AddDate(0, 0, 10),
		},
		{
			name:    "expired journey",
			now:     journeyStart.AddDate(0, 0, 91),
			wantErr: apperrors.ErrJourneyExpired,
		},
		{
			name: "already submitted",
			prepare: func(j *domain.Journey) {
				_ = j.SubmitJourney(journeyStart)
			},
			now:     journeyStart.AddDate(0, 0, 1),
			wantErr: apperrors.ErrJourneySubmitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newTestJourney(t, domain.JourneyTypeDbCoreRetirementApplication)
			if tt.prepare != nil {
				tt.prepare(j)
			}

			err := j.SubmitJourney(tt.now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, j.IsSubmitted())
			assert.True(t, j.IsCurrentStepSubmitted())
			assert.Equal(t, domain.JourneyStatusSubmitted, j.Status)
		})
	}
}

func TestJourney_IsCurrentStepSubmitted(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeDbCoreRetirementApplication)
	assert.False(t, j.IsCurrentStepSubmitted())

	require.NoError(t, j.TrySubmitStep("hub", "step_2", journeyStart, nil))
	assert.False(t, j.IsCurrentStepSubmitted(), "the opened next page is still pending")

	require.NoError(t, j.SubmitJourney(journeyStart.AddDate(0, 0, 1)))
	require.NotNil(t, j.CurrentStep())
	assert.Equal(t, "step_2", j.CurrentStep().CurrentPageKey)
	assert.True(t, j.IsCurrentStepSubmitted())

	assert.False(t, (&domain.Journey{}).IsCurrentStepSubmitted())
}

func TestJourney_GenericData(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeDcExploreOptions)

	require.NoError(t, j.UpdateGenericData("hub", domain.FormKeySelectedRetirementDate, `{"retirementDate":"2030-01-01T00:00:00Z"}`))
	require.NoError(t, j.UpdateGenericData("hub", domain.FormKeySelectedRetirementDate, `{"retirementDate":"2031-06-30T00:00:00Z"}`))
	require.NoError(t, j.AppendGenericDataList("hub", []domain.JourneyGenericData{
		{FormKey: domain.FormKeyJourneySubmissionDetails, GenericDataJSON: `{"a":1}`},
	}))

	require.Len(t, j.CurrentStep().GenericData, 2)
	date := j.SelectedRetirementDate()
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2031, time.June, 30, 0, 0, 0, 0, time.UTC), date.UTC())
	assert.Nil(t, j.GetGenericData("unknown"))
	assert.ErrorIs(t, j.UpdateGenericData("missing", "k", "{}"), apperrors.ErrStepNotFound)
}

func TestJourney_IsExpired(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeDbCoreRetirementApplication)
	require.NotNil(t, j.ExpirationDate)

	assert.False(t, j.IsExpired(journeyStart.AddDate(0, 0, 90)))
	assert.True(t, j.IsExpired(journeyStart.AddDate(0, 0, 90).Add(time.Second)))

	neverExpires := newTestJourney(t, domain.JourneyTypeRequestQuote)
	assert.Nil(t, neverExpires.ExpirationDate)
	assert.False(t, neverExpires.IsExpired(journeyStart.AddDate(50, 0, 0)))
}

func TestJourney_RemoveStaleVerificationSteps(t *testing.T) {
	build := func(t *testing.T, submittedAt time.Time) *domain.Journey {
		j := newTestJourney(t, domain.JourneyTypeDbCoreRetirementApplication)
		require.NoError(t, j.TrySubmitStep("hub", "gbg_user_identification", submittedAt, nil))
		require.NoError(t, j.TrySubmitStep("gbg_user_identification", "summary", submittedAt, nil))
		require.NoError(t, j.TrySubmitStep("summary", "confirmation", submittedAt, nil))
		return j
	}
	now := journeyStart.AddDate(0, 0, 45)

	t.Run("GbgStepIsOlderThan30Days", func(t *testing.T) {
		j := build(t, now.AddDate(0, 0, -31))

		removed := j.RemoveStaleVerificationSteps(now)

		assert.True(t, removed)
		require.Len(t, j.Steps(), 2)
		assert.Equal(t, "gbg_user_identification", j.CurrentStep().CurrentPageKey)
		assert.False(t, j.CurrentStep().IsSubmitted())
	})

	t.Run("GbgStepIsRecent", func(t *testing.T) {
		j := build(t, now.AddDate(0, 0, -29))

		removed := j.RemoveStaleVerificationSteps(now)

		assert.False(t, removed)
		assert.Len(t, j.Steps(), 4)
	})
}

func TestJourney_QuestionAnswerFlags_SkipsIncompleteQuestions(t *testing.T) {
	j := newTestJourney(t, domain.JourneyTypeTransfer)
	require.NoError(t, j.TrySubmitStep("hub", "s2", journeyStart, &domain.QuestionForm{QuestionKey: "q"}))
	require.NoError(t, j.TrySubmitStep("s2", "s3", journeyStart, &domain.QuestionForm{QuestionKey: "q2", AnswerKey: "a2"}))

	assert.Equal(t, []string{"q2-a2"}, j.QuestionAnswerFlags())
}
