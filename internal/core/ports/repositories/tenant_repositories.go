package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// TenantSettingsReader reads per business group configuration
type TenantSettingsReader interface {
	// FindTenantSettings returns nil when the business group is not configured.
	FindTenantSettings(ctx context.Context, businessGroup string) (*domain.TenantSettings, error)
}

// PayTimelineReader reads the payment day rules of a business group
type PayTimelineReader interface {
	FindPayTimelines(ctx context.Context, businessGroup string) ([]domain.PayTimeline, error)
}

// IfaReferralReader checks for referrals to an independent financial adviser
type IfaReferralReader interface {
	// HasActiveReferral reports whether the member was referred on or after since.
	HasActiveReferral(ctx context.Context, businessGroup, referenceNumber string, since time.Time) (bool, error)
}
