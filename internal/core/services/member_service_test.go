package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	"github.com/SscSPs/mdp_service/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberService_GetMember(t *testing.T) {
	ctx := context.Background()
	member := testMember(domain.SchemeDB, domain.MemberActive)

	t.Run("found", func(t *testing.T) {
		memberRepo := new(MockMemberRepository)
		memberRepo.On("FindMember", ctx, testBusinessGroup, testReferenceNumber).Return(member, nil).Once()
		svc := services.NewMemberService(memberRepo, new(MockTenantSettingsRepository))

		got, err := svc.GetMember(ctx, testBusinessGroup, testReferenceNumber)

		require.NoError(t, err)
		assert.Same(t, member, got)
	})

	t.Run("missing member is not found", func(t *testing.T) {
		memberRepo := new(MockMemberRepository)
		memberRepo.On("FindMember", ctx, testBusinessGroup, testReferenceNumber).Return(nil, nil).Once()
		svc := services.NewMemberService(memberRepo, new(MockTenantSettingsRepository))

		got, err := svc.GetMember(ctx, testBusinessGroup, testReferenceNumber)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		memberRepo := new(MockMemberRepository)
		memberRepo.On("FindMember", ctx, testBusinessGroup, testReferenceNumber).Return(nil, dbErr).Once()
		svc := services.NewMemberService(memberRepo, new(MockTenantSettingsRepository))

		_, err := svc.GetMember(ctx, testBusinessGroup, testReferenceNumber)

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMemberService_GetTenantSettings(t *testing.T) {
	ctx := context.Background()
	settings := &domain.TenantSettings{BusinessGroup: testBusinessGroup, TenantURL: "https://rbs.example.com", PreRetirementAgePeriod: 5}

	tenantRepo := new(MockTenantSettingsRepository)
	tenantRepo.On("FindTenantSettings", ctx, testBusinessGroup).Return(settings, nil).Once()
	tenantRepo.On("FindTenantSettings", ctx, "XYZ").Return(nil, nil).Once()
	svc := services.NewMemberService(new(MockMemberRepository), tenantRepo)

	got, err := svc.GetTenantSettings(ctx, testBusinessGroup)
	require.NoError(t, err)
	assert.Equal(t, settings, got)

	_, err = svc.GetTenantSettings(ctx, "XYZ")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	tenantRepo.AssertExpectations(t)
}
