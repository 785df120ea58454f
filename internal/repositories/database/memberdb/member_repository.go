// Package memberdb reads and records member data in the member store, a separate Postgres
// database reached through database/sql and lib/pq.
package memberdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type txKey struct{}

// WithTx routes member store statements made with the returned context through tx.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type MemberRepository struct {
	DB *sql.DB
}

// NewMemberRepository creates a repository over the member store.
func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

var _ portsrepo.MemberRepositoryFacade = (*MemberRepository)(nil)

func (r *MemberRepository) conn(ctx context.Context) execer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.DB
}

const memberSelectQuery = `
SELECT business_group, reference_number, scheme_code, scheme_type, category, status, status_code,
	date_of_birth, date_of_retirement, has_additional_contributions, linked_members, paper_retirement_applications
FROM members
WHERE business_group = $1 AND reference_number = $2`

func (r *MemberRepository) FindMember(ctx context.Context, businessGroup, referenceNumber string) (*domain.Member, error) {
	var (
		m                 domain.Member
		schemeType        string
		status            string
		dateOfBirth       sql.NullTime
		dateOfRetirement  sql.NullTime
		linkedMembers     []byte
		paperApplications []byte
	)
	err := r.conn(ctx).QueryRowContext(ctx, memberSelectQuery, businessGroup, referenceNumber).Scan(
		&m.BusinessGroup,
		&m.ReferenceNumber,
		&m.SchemeCode,
		&schemeType,
		&m.Category,
		&status,
		&m.StatusCode,
		&dateOfBirth,
		&dateOfRetirement,
		&m.HasAdditionalContributions,
		&linkedMembers,
		&paperApplications,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query member", err)
	}

	m.SchemeType = domain.SchemeType(schemeType)
	m.Status = domain.MemberStatus(status)
	if dateOfBirth.Valid {
		dob := dateOfBirth.Time
		m.DateOfBirth = &dob
	}
	if dateOfRetirement.Valid {
		dor := dateOfRetirement.Time
		m.DateOfRetirement = &dor
	}
	if len(linkedMembers) > 0 {
		if err := json.Unmarshal(linkedMembers, &m.LinkedMembers); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode linked members", err)
		}
	}
	if len(paperApplications) > 0 {
		if err := json.Unmarshal(paperApplications, &m.PaperRetirementApplications); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode paper retirement applications", err)
		}
	}
	return &m, nil
}

func (r *MemberRepository) RecordJourneySubmission(ctx context.Context, submission domain.JourneySubmission) error {
	query := `
		INSERT INTO journey_submissions (business_group, reference_number, journey_id, journey_type, submitted_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.conn(ctx).ExecContext(ctx, query,
		submission.BusinessGroup,
		submission.ReferenceNumber,
		submission.JourneyID,
		submission.JourneyType,
		submission.SubmittedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.NewAppError(409, "journey "+submission.JourneyID+" already recorded", errors.Join(apperrors.ErrDuplicate, err))
		}
		return apperrors.NewAppError(500, "failed to record journey submission", err)
	}
	return nil
}
