package pgsql

import (
	"database/sql"

	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	"github.com/SscSPs/mdp_service/internal/repositories/database/memberdb"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the mdp store repositories on dbPool and the member store
// repository on memberDB. uow must be the same unit of work the request middleware starts.
func NewRepositoryProvider(dbPool *pgxpool.Pool, memberDB *sql.DB, uow *PgxUnitOfWork) portsrepo.RepositoryProvider {
	journeyRepo := newPgxJourneyRepository(dbPool)
	calculationRepo := newPgxCalculationRepository(dbPool)
	transferRepo := newPgxTransferCalculationRepository(dbPool)
	tenantRepo := newPgxTenantRepository(dbPool)

	return portsrepo.RepositoryProvider{
		JourneyRepo:             journeyRepo,
		CalculationRepo:         calculationRepo,
		TransferCalculationRepo: transferRepo,
		QuoteSelectionRepo:      tenantRepo,
		TenantSettingsRepo:      tenantRepo,
		PayTimelineRepo:         tenantRepo,
		IfaReferralRepo:         tenantRepo,
		MemberRepo:              memberdb.NewMemberRepository(memberDB),
		UnitOfWork:              uow,
		DualTxManager:           NewDualTransactionManager(dbPool, memberDB),
	}
}
