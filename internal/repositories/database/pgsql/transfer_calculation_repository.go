package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransferCalculationRepository struct {
	BaseRepository
}

func newPgxTransferCalculationRepository(pool *pgxpool.Pool) portsrepo.TransferCalculationRepositoryFacade {
	return &PgxTransferCalculationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransferCalculationRepositoryFacade = (*PgxTransferCalculationRepository)(nil)

func (r *PgxTransferCalculationRepository) FindTransferCalculation(ctx context.Context, businessGroup, referenceNumber string) (*domain.TransferCalculation, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, business_group, reference_number, transfer_quote_json, lock_transfer_quote,
			status, created_at, last_updated_at
		FROM transfer_calculations
		WHERE business_group = $1 AND reference_number = $2;
	`
	var (
		t      domain.TransferCalculation
		status string
	)
	err = q.QueryRow(ctx, query, businessGroup, referenceNumber).Scan(
		&t.ID,
		&t.BusinessGroup,
		&t.ReferenceNumber,
		&t.TransferQuoteJSON,
		&t.LockTransferQuote,
		&status,
		&t.CreatedAt,
		&t.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query transfer calculation", err)
	}
	t.Status = domain.TransferApplicationStatus(status)
	return &t, nil
}

func (r *PgxTransferCalculationRepository) UpdateTransferCalculation(ctx context.Context, calculation *domain.TransferCalculation) error {
	q, err := r.db(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE transfer_calculations
		SET transfer_quote_json = $2, lock_transfer_quote = $3, status = $4, last_updated_at = $5
		WHERE id = $1;
	`
	tag, err := q.Exec(ctx, query,
		calculation.ID,
		calculation.TransferQuoteJSON,
		calculation.LockTransferQuote,
		string(calculation.Status),
		calculation.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transfer calculation", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(404, "transfer calculation not found", apperrors.ErrNotFound)
	}
	return nil
}
