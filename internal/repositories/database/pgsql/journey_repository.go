package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJourneyRepository struct {
	BaseRepository
}

// newPgxJourneyRepository creates a new repository for member journeys.
func newPgxJourneyRepository(pool *pgxpool.Pool) portsrepo.JourneyRepositoryFacade {
	return &PgxJourneyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JourneyRepositoryFacade = (*PgxJourneyRepository)(nil)

const journeySelectQuery = `
SELECT
	j.id, j.business_group, j.reference_number, j.type, j.status, j.start_date,
	j.expiration_date, j.submission_date, j.is_marked_for_removal, j.wording_flags, j.branches
FROM journeys j
`

// scanJourney reads one journey row; the step graph is stored as JSONB.
func scanJourney(row pgx.Row) (*domain.Journey, error) {
	var (
		j            domain.Journey
		wordingFlags []byte
		branches     []byte
	)
	if err := row.Scan(
		&j.ID,
		&j.BusinessGroup,
		&j.ReferenceNumber,
		&j.Type,
		&j.Status,
		&j.StartDate,
		&j.ExpirationDate,
		&j.SubmissionDate,
		&j.IsMarkedForRemoval,
		&wordingFlags,
		&branches,
	); err != nil {
		return nil, err
	}
	if len(wordingFlags) > 0 {
		if err := json.Unmarshal(wordingFlags, &j.WordingFlags); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode journey wording flags", err)
		}
	}
	if len(branches) > 0 {
		if err := json.Unmarshal(branches, &j.Branches); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode journey branches", err)
		}
	}
	return &j, nil
}

func encodeJourney(journey *domain.Journey) (wordingFlags []byte, branches []byte, err error) {
	flags := journey.WordingFlags
	if flags == nil {
		flags = []string{}
	}
	if wordingFlags, err = json.Marshal(flags); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to encode journey wording flags", err)
	}
	if branches, err = json.Marshal(journey.Branches); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to encode journey branches", err)
	}
	return wordingFlags, branches, nil
}

func (r *PgxJourneyRepository) findJourneyByID(ctx context.Context, q querier, journeyID string) (*domain.Journey, error) {
	journey, err := scanJourney(q.QueryRow(ctx, journeySelectQuery+`WHERE j.id = $1`, journeyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query journey "+journeyID, err)
	}
	return journey, nil
}

func (r *PgxJourneyRepository) FindJourney(ctx context.Context, businessGroup, referenceNumber, journeyType string) (*domain.Journey, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	row := q.QueryRow(ctx, journeySelectQuery+`WHERE j.business_group = $1 AND j.reference_number = $2 AND j.type = $3`,
		businessGroup, referenceNumber, journeyType)
	journey, err := scanJourney(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query journey", err)
	}
	return journey, nil
}

func (r *PgxJourneyRepository) FindAllJourneys(ctx context.Context, businessGroup, referenceNumber string) ([]domain.Journey, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, journeySelectQuery+`WHERE j.business_group = $1 AND j.reference_number = $2 ORDER BY j.start_date`,
		businessGroup, referenceNumber)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journeys", err)
	}
	defer rows.Close()

	journeys := []domain.Journey{}
	for rows.Next() {
		journey, err := scanJourney(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journey row", err)
		}
		journeys = append(journeys, *journey)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate journey rows", err)
	}
	return journeys, nil
}

func (r *PgxJourneyRepository) CreateJourney(ctx context.Context, journey *domain.Journey) error {
	q, err := r.db(ctx)
	if err != nil {
		return err
	}
	wordingFlags, branches, err := encodeJourney(journey)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO journeys (
			id, business_group, reference_number, type, status, start_date,
			expiration_date, submission_date, is_marked_for_removal, wording_flags, branches, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = q.Exec(ctx, query,
		journey.ID,
		journey.BusinessGroup,
		journey.ReferenceNumber,
		journey.Type,
		journey.Status,
		journey.StartDate,
		journey.ExpirationDate,
		journey.SubmissionDate,
		journey.IsMarkedForRemoval,
		wordingFlags,
		branches,
		time.Now().UTC(),
	)
	if err != nil {
		return translateWriteError("failed to save journey "+journey.ID, err)
	}
	return nil
}

func (r *PgxJourneyRepository) UpdateJourney(ctx context.Context, journey *domain.Journey) error {
	q, err := r.db(ctx)
	if err != nil {
		return err
	}
	wordingFlags, branches, err := encodeJourney(journey)
	if err != nil {
		return err
	}
	query := `
		UPDATE journeys
		SET status = $2, expiration_date = $3, submission_date = $4, is_marked_for_removal = $5,
			wording_flags = $6, branches = $7, last_updated_at = $8
		WHERE id = $1;
	`
	tag, err := q.Exec(ctx, query,
		journey.ID,
		journey.Status,
		journey.ExpirationDate,
		journey.SubmissionDate,
		journey.IsMarkedForRemoval,
		wordingFlags,
		branches,
		time.Now().UTC(),
	)
	if err != nil {
		return translateWriteError("failed to update journey "+journey.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(404, "journey "+journey.ID+" not found", apperrors.ErrNotFound)
	}
	return nil
}

// RemoveJourney deletes the journey row. A linked calculation keeps its row and loses the link.
func (r *PgxJourneyRepository) RemoveJourney(ctx context.Context, journey *domain.Journey) error {
	q, err := r.db(ctx)
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, `DELETE FROM journeys WHERE id = $1`, journey.ID); err != nil {
		return apperrors.NewAppError(500, "failed to remove journey "+journey.ID, err)
	}
	return nil
}
