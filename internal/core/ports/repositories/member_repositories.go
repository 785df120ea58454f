package repositories

import (
	"context"

	"github.com/SscSPs/mdp_service/internal/core/domain"
)

// MemberReader reads member records from the member store
type MemberReader interface {
	// FindMember returns nil when no member matches.
	FindMember(ctx context.Context, businessGroup, referenceNumber string) (*domain.Member, error)
}

// MemberWriter records member activity in the member store
type MemberWriter interface {
	RecordJourneySubmission(ctx context.Context, submission domain.JourneySubmission) error
}

// MemberRepositoryFacade combines all member store repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
