package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxCalculationRepository struct {
	BaseRepository
	journeys *PgxJourneyRepository
}

// newPgxCalculationRepository creates a new repository for cached retirement calculations.
func newPgxCalculationRepository(pool *pgxpool.Pool) portsrepo.CalculationRepositoryFacade {
	base := BaseRepository{Pool: pool}
	return &PgxCalculationRepository{
		BaseRepository: base,
		journeys:       &PgxJourneyRepository{BaseRepository: base},
	}
}

var _ portsrepo.CalculationRepositoryFacade = (*PgxCalculationRepository)(nil)

func (r *PgxCalculationRepository) FindCalculation(ctx context.Context, businessGroup, referenceNumber string) (*domain.Calculation, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT
			c.id, c.business_group, c.reference_number, c.retirement_dates_ages_json, c.retirement_json,
			c.retirement_json_v2, c.quotes_json_v2, c.effective_retirement_date, c.entered_lump_sum,
			c.is_calculation_successful, c.calculation_status, c.selected_quote_name, c.calculation_date,
			c.journey_id
		FROM calculations c
		WHERE c.business_group = $1 AND c.reference_number = $2;
	`
	var (
		calc      domain.Calculation
		lumpSum   decimal.NullDecimal
		journeyID *string
	)
	err = q.QueryRow(ctx, query, businessGroup, referenceNumber).Scan(
		&calc.ID,
		&calc.BusinessGroup,
		&calc.ReferenceNumber,
		&calc.RetirementDatesAgesJSON,
		&calc.RetirementJSON,
		&calc.RetirementJSONV2,
		&calc.QuotesJSONV2,
		&calc.EffectiveRetirementDate,
		&lumpSum,
		&calc.IsCalculationSuccessful,
		&calc.CalculationStatus,
		&calc.SelectedQuoteName,
		&calc.CurrentDate,
		&journeyID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query calculation", err)
	}
	if lumpSum.Valid {
		calc.EnteredLumpSum = &lumpSum.Decimal
	}
	if journeyID != nil {
		journey, err := r.journeys.findJourneyByID(ctx, q, *journeyID)
		if err != nil {
			return nil, err
		}
		calc.Journey = journey
	}
	return &calc, nil
}

func (r *PgxCalculationRepository) CreateCalculation(ctx context.Context, calculation *domain.Calculation) error {
	q, err := r.db(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO calculations (
			business_group, reference_number, retirement_dates_ages_json, retirement_json,
			retirement_json_v2, quotes_json_v2, effective_retirement_date, entered_lump_sum,
			is_calculation_successful, calculation_status, selected_quote_name, calculation_date,
			journey_id, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;
	`
	err = q.QueryRow(ctx, query, r.calculationArgs(calculation)...).Scan(&calculation.ID)
	if err != nil {
		return translateWriteError("failed to save calculation for "+calculation.BusinessGroup+"/"+calculation.ReferenceNumber, err)
	}
	return nil
}

func (r *PgxCalculationRepository) UpdateCalculation(ctx context.Context, calculation *domain.Calculation) error {
	q, err := r.db(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE calculations
		SET retirement_dates_ages_json = $3, retirement_json = $4, retirement_json_v2 = $5,
			quotes_json_v2 = $6, effective_retirement_date = $7, entered_lump_sum = $8,
			is_calculation_successful = $9, calculation_status = $10, selected_quote_name = $11,
			calculation_date = $12, journey_id = $13, last_updated_at = $14
		WHERE business_group = $1 AND reference_number = $2;
	`
	tag, err := q.Exec(ctx, query, r.calculationArgs(calculation)...)
	if err != nil {
		return translateWriteError("failed to update calculation "+strconv.FormatInt(calculation.ID, 10), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(404, "calculation not found", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxCalculationRepository) RemoveCalculation(ctx context.Context, calculation *domain.Calculation) error {
	q, err := r.db(ctx)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `DELETE FROM calculations WHERE business_group = $1 AND reference_number = $2`,
		calculation.BusinessGroup, calculation.ReferenceNumber)
	if err != nil {
		return apperrors.NewAppError(500, "failed to remove calculation", err)
	}
	return nil
}

// calculationArgs lists the column values in insert order.
func (r *PgxCalculationRepository) calculationArgs(c *domain.Calculation) []any {
	var lumpSum any
	if c.EnteredLumpSum != nil {
		lumpSum = *c.EnteredLumpSum
	}
	var journeyID *string
	if c.Journey != nil {
		journeyID = &c.Journey.ID
	}
	return []any{
		c.BusinessGroup,
		c.ReferenceNumber,
		c.RetirementDatesAgesJSON,
		c.RetirementJSON,
		c.RetirementJSONV2,
		c.QuotesJSONV2,
		c.EffectiveRetirementDate,
		lumpSum,
		c.IsCalculationSuccessful,
		c.CalculationStatus,
		c.SelectedQuoteName,
		c.CurrentDate,
		journeyID,
		time.Now().UTC(),
	}
}
