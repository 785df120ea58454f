package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
)

type memberService struct {
	BaseService
	memberRepo portsrepo.MemberReader
	tenantRepo portsrepo.TenantSettingsReader
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo portsrepo.MemberReader, tenantRepo portsrepo.TenantSettingsReader) portssvc.MemberSvc {
	return &memberService{
		memberRepo: memberRepo,
		tenantRepo: tenantRepo,
	}
}

var _ portssvc.MemberSvc = (*memberService)(nil)

// GetMember returns the member record, or apperrors.ErrNotFound.
func (s *memberService) GetMember(ctx context.Context, businessGroup, referenceNumber string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMember(ctx, businessGroup, referenceNumber)
	if err != nil {
		s.LogError(ctx, err, "Failed to find member", memberAttrs(businessGroup, referenceNumber)...)
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("%w: member %s/%s", apperrors.ErrNotFound, businessGroup, referenceNumber)
	}
	return member, nil
}

// GetTenantSettings returns the business group's settings, or apperrors.ErrNotFound.
func (s *memberService) GetTenantSettings(ctx context.Context, businessGroup string) (*domain.TenantSettings, error) {
	settings, err := s.tenantRepo.FindTenantSettings(ctx, businessGroup)
	if err != nil {
		s.LogError(ctx, err, "Failed to find tenant settings", slog.String("business_group", businessGroup))
		return nil, fmt.Errorf("failed to find tenant settings: %w", err)
	}
	if settings == nil {
		return nil, fmt.Errorf("%w: tenant %s", apperrors.ErrNotFound, businessGroup)
	}
	return settings, nil
}
