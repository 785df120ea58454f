package memberdb_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	"github.com/SscSPs/mdp_service/internal/repositories/database/memberdb"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberColumns = []string{
	"business_group", "reference_number", "scheme_code", "scheme_type", "category", "status", "status_code",
	"date_of_birth", "date_of_retirement", "has_additional_contributions", "linked_members", "paper_retirement_applications",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestMemberRepository_FindMember(t *testing.T) {
	db, mock := newMock(t)
	repo := memberdb.NewMemberRepository(db)
	dob := time.Date(1987, time.April, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("RBS", "0304442").
		WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(
			"RBS", "0304442", "0001", "DC", "1001", "Active", "AC",
			dob, nil, true,
			[]byte(`[{"linkedBusinessGroup":"RBS","linkedReferenceNumber":"0304443"}]`),
			[]byte(`[]`),
		))

	member, err := repo.FindMember(context.Background(), "RBS", "0304442")

	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, domain.SchemeDC, member.SchemeType)
	assert.Equal(t, domain.MemberActive, member.Status)
	require.NotNil(t, member.DateOfBirth)
	assert.True(t, dob.Equal(*member.DateOfBirth))
	assert.Nil(t, member.DateOfRetirement)
	assert.True(t, member.HasAdditionalContributions)
	assert.Equal(t, []domain.LinkedMember{{LinkedBusinessGroup: "RBS", LinkedReferenceNumber: "0304443"}}, member.LinkedMembers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_FindMember_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := memberdb.NewMemberRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("RBS", "missing").
		WillReturnRows(sqlmock.NewRows(memberColumns))

	member, err := repo.FindMember(context.Background(), "RBS", "missing")

	assert.NoError(t, err)
	assert.Nil(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_RecordJourneySubmission_InTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := memberdb.NewMemberRepository(db)
	submittedAt := time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO journey_submissions")).
		WithArgs("RBS", "0304442", "journey-1", "transfer", submittedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := memberdb.WithTx(context.Background(), tx)

	err = repo.RecordJourneySubmission(ctx, domain.JourneySubmission{
		BusinessGroup:   "RBS",
		ReferenceNumber: "0304442",
		JourneyID:       "journey-1",
		JourneyType:     "transfer",
		SubmittedAt:     submittedAt,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_RecordJourneySubmission_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := memberdb.NewMemberRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO journey_submissions")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.RecordJourneySubmission(context.Background(), domain.JourneySubmission{
		BusinessGroup:   "RBS",
		ReferenceNumber: "0304442",
		JourneyID:       "journey-1",
		JourneyType:     "transfer",
		SubmittedAt:     time.Now(),
	})

	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
