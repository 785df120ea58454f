package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	"github.com/SscSPs/mdp_service/internal/repositories/database/memberdb"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDualTransactionManager opens one transaction on the mdp store and one on the member store.
type PgxDualTransactionManager struct {
	BaseRepository
	memberDB *sql.DB
}

// NewDualTransactionManager creates a manager over both store connections.
func NewDualTransactionManager(pool *pgxpool.Pool, memberDB *sql.DB) *PgxDualTransactionManager {
	return &PgxDualTransactionManager{
		BaseRepository: BaseRepository{Pool: pool},
		memberDB:       memberDB,
	}
}

var _ portsrepo.DualTransactionManager = (*PgxDualTransactionManager)(nil)

func (m *PgxDualTransactionManager) Begin(ctx context.Context) (context.Context, portsrepo.DualTransaction, error) {
	mdpTx, err := m.BaseRepository.Begin(ctx)
	if err != nil {
		return ctx, nil, err
	}
	memberTx, err := m.memberDB.BeginTx(ctx, nil)
	if err != nil {
		_ = m.BaseRepository.Rollback(ctx, mdpTx)
		return ctx, nil, apperrors.NewAppError(500, "failed to begin member store transaction", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, mdpTx)
	txCtx = memberdb.WithTx(txCtx, memberTx)
	return txCtx, &dualTransaction{repo: &m.BaseRepository, mdp: mdpTx, member: memberTx}, nil
}

type dualTransaction struct {
	repo   *BaseRepository
	mdp    pgx.Tx
	member *sql.Tx
}

// Commit commits the mdp store first. The member store is rolled back if that fails.
func (t *dualTransaction) Commit(ctx context.Context) error {
	if err := t.repo.Commit(ctx, t.mdp); err != nil {
		_ = t.member.Rollback()
		return err
	}
	if err := t.member.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit member store transaction", err)
	}
	return nil
}

func (t *dualTransaction) Rollback(ctx context.Context) error {
	if t.mdp == nil || t.member == nil {
		panic("dual transaction rollback without an open transaction")
	}
	var memberErr error
	if err := t.member.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		memberErr = apperrors.NewAppError(500, "failed to rollback member store transaction", err)
	}
	return errors.Join(t.repo.Rollback(ctx, t.mdp), memberErr)
}
