package services

import (
	"context"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// MemberSvc loads the member and tenant data an access key request starts from
type MemberSvc interface {
	// GetMember returns apperrors.ErrNotFound when the member does not exist.
	GetMember(ctx context.Context, businessGroup, referenceNumber string) (*domain.Member, error)

	// GetTenantSettings returns apperrors.ErrNotFound when the business group is not configured.
	GetTenantSettings(ctx context.Context, businessGroup string) (*domain.TenantSettings, error)
}
