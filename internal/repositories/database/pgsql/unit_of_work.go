package pgsql

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	portsrepo "github.com/SscSPs/mdp_service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sessionKey struct{}

// session is the request's unit of work. Its transaction is opened by the first statement and
// closed by Commit; the next statement opens a new one.
//
// A statement rejected by Postgres aborts the transaction server side, so the session rolls it
// back and the next statement starts over. Writes lost that way are reported by the next Commit.
type session struct {
	repo      *BaseRepository
	begin     func(context.Context) (pgx.Tx, error)
	mu        sync.Mutex
	current   pgx.Tx
	dirty     bool
	discarded error
}

func (s *session) tx(ctx context.Context) (querier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		tx, err := s.begin(ctx)
		if err != nil {
			return nil, err
		}
		s.current = tx
	}
	return sessionQuerier{s: s, tx: s.current}, nil
}

// record notes the outcome of a statement run on tx.
func (s *session) record(ctx context.Context, tx pgx.Tx, sql string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != tx {
		return
	}
	if err == nil {
		if isWriteStatement(sql) {
			s.dirty = true
		}
		return
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return
	}
	_ = s.repo.Rollback(ctx, tx)
	if s.dirty {
		s.discarded = err
	}
	s.current, s.dirty = nil, false
}

func (s *session) reset(ctx context.Context) {
	if s.current != nil {
		_ = s.repo.Rollback(ctx, s.current)
	}
	s.current, s.dirty, s.discarded = nil, false, nil
}

func isWriteStatement(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "INSERT", "UPDATE", "DELETE":
		return true
	}
	return false
}

// sessionQuerier runs statements on the session's transaction and reports their outcome back.
type sessionQuerier struct {
	s  *session
	tx pgx.Tx
}

func (q sessionQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := q.tx.Exec(ctx, sql, args...)
	q.s.record(ctx, q.tx, sql, err)
	return tag, err
}

func (q sessionQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := q.tx.Query(ctx, sql, args...)
	if err != nil {
		q.s.record(ctx, q.tx, sql, err)
		return nil, err
	}
	return &sessionRows{Rows: rows, ctx: ctx, q: q, sql: sql}, nil
}

func (q sessionQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return sessionRow{row: q.tx.QueryRow(ctx, sql, args...), ctx: ctx, q: q, sql: sql}
}

type sessionRow struct {
	row pgx.Row
	ctx context.Context
	q   sessionQuerier
	sql string
}

func (r sessionRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.q.s.record(r.ctx, r.q.tx, r.sql, err)
	return err
}

type sessionRows struct {
	pgx.Rows
	ctx context.Context
	q   sessionQuerier
	sql string
}

func (r *sessionRows) Err() error {
	err := r.Rows.Err()
	r.q.s.record(r.ctx, r.q.tx, r.sql, err)
	return err
}

// PgxUnitOfWork groups the mdp store writes of one request into a transaction.
type PgxUnitOfWork struct {
	BaseRepository
}

// NewUnitOfWork creates a unit of work over the mdp store pool.
func NewUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// Start attaches a fresh session to ctx. end rolls back anything left uncommitted.
func (u *PgxUnitOfWork) Start(ctx context.Context) (context.Context, func(context.Context)) {
	s := &session{repo: &u.BaseRepository, begin: u.Begin}
	end := func(ctx context.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.reset(ctx)
	}
	return context.WithValue(ctx, sessionKey{}, s), end
}

// Commit commits the session's open transaction. Without a session or pending writes it does nothing.
// When earlier writes were rolled back by a failed statement nothing is committed and an error is returned.
func (u *PgxUnitOfWork) Commit(ctx context.Context) error {
	s, ok := ctx.Value(sessionKey{}).(*session)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discarded != nil {
		err := s.discarded
		s.reset(ctx)
		return apperrors.NewAppError(500, "transaction rolled back after a failed statement", err)
	}
	if s.current == nil {
		return nil
	}
	tx := s.current
	s.current, s.dirty = nil, false
	return u.BaseRepository.Commit(ctx, tx)
}
