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

// PgxTenantRepository reads the per business group tables of the mdp store.
type PgxTenantRepository struct {
	BaseRepository
}

func newPgxTenantRepository(pool *pgxpool.Pool) *PgxTenantRepository {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var (
	_ portsrepo.TenantSettingsReader        = (*PgxTenantRepository)(nil)
	_ portsrepo.PayTimelineReader           = (*PgxTenantRepository)(nil)
	_ portsrepo.IfaReferralReader           = (*PgxTenantRepository)(nil)
	_ portsrepo.QuoteSelectionJourneyReader = (*PgxTenantRepository)(nil)
)

func (r *PgxTenantRepository) FindTenantSettings(ctx context.Context, businessGroup string) (*domain.TenantSettings, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT business_group, tenant_url, pre_retirement_age_period, newly_retired_range,
			is_web_chat_enabled, guaranteed_quotes_enabled, classifier_values
		FROM tenant_settings
		WHERE business_group = $1;
	`
	var (
		ts          domain.TenantSettings
		classifiers []byte
	)
	err = q.QueryRow(ctx, query, businessGroup).Scan(
		&ts.BusinessGroup,
		&ts.TenantURL,
		&ts.PreRetirementAgePeriod,
		&ts.NewlyRetiredRange,
		&ts.IsWebChatEnabled,
		&ts.GuaranteedQuotesEnabled,
		&classifiers,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query tenant settings", err)
	}
	if len(classifiers) > 0 {
		if err := json.Unmarshal(classifiers, &ts.ClassifierValues); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode classifier values", err)
		}
	}
	return &ts, nil
}

func (r *PgxTenantRepository) FindPayTimelines(ctx context.Context, businessGroup string) ([]domain.PayTimeline, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT business_group, category, scheme_code
		FROM pay_timelines
		WHERE business_group = $1;
	`
	rows, err := q.Query(ctx, query, businessGroup)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pay timelines", err)
	}
	timelines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayTimeline, error) {
		var p domain.PayTimeline
		err := row.Scan(&p.BusinessGroup, &p.Category, &p.SchemeCode)
		return p, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect pay timeline rows", err)
	}
	return timelines, nil
}

func (r *PgxTenantRepository) HasActiveReferral(ctx context.Context, businessGroup, referenceNumber string, since time.Time) (bool, error) {
	q, err := r.db(ctx)
	if err != nil {
		return false, err
	}
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ifa_referrals
			WHERE business_group = $1 AND reference_number = $2 AND referral_date >= $3
		);
	`
	var exists bool
	if err := q.QueryRow(ctx, query, businessGroup, referenceNumber, since).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to query IFA referrals", err)
	}
	return exists, nil
}

// FindQuoteSelectionJourney returns the latest quote selection made for the member.
func (r *PgxTenantRepository) FindQuoteSelectionJourney(ctx context.Context, businessGroup, referenceNumber string) (*domain.QuoteSelectionJourney, error) {
	q, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT business_group, reference_number, selected_quote_name, created_at
		FROM quote_selection_journeys
		WHERE business_group = $1 AND reference_number = $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	var s domain.QuoteSelectionJourney
	err = q.QueryRow(ctx, query, businessGroup, referenceNumber).Scan(
		&s.BusinessGroup,
		&s.ReferenceNumber,
		&s.SelectedQuoteName,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query quote selection journey", err)
	}
	return &s, nil
}
