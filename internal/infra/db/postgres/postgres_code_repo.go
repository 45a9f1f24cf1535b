package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.CodeRepository = (*codeRepo)(nil)

type codeRepo struct {
	pool *pgxpool.Pool
}

func NewCodeRepo(pool *pgxpool.Pool) repository.CodeRepository {
	return &codeRepo{pool: pool}
}

func (r *codeRepo) Add(ctx context.Context, tx repository.Tx, code *model.Code) error {
	if code.Payload == "" {
		return domain.ErrInvalidArgument
	}
	if code.ID == "" {
		code.ID = uuid.NewString()
	}

	const q = `
INSERT INTO codes (id, type, payload, used, created_at)
VALUES ($1, $2, $3, FALSE, $4);
`
	_, err := execSQL(ctx, r.pool, tx, q, code.ID, code.Type, code.Payload, code.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

// BulkAdd inserts the batch row by row on the given executor. Callers that
// need all-or-nothing semantics pass a transaction handle; a failed insert
// then rolls the whole batch back.
func (r *codeRepo) BulkAdd(ctx context.Context, tx repository.Tx, codes []*model.Code) (int, error) {
	for _, code := range codes {
		if err := r.Add(ctx, tx, code); err != nil {
			return 0, err
		}
	}
	return len(codes), nil
}

func (r *codeRepo) CountUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) (int, error) {
	const q = `SELECT COUNT(*) FROM codes WHERE type = $1 AND used = FALSE;`
	row, err := pickRow(ctx, r.pool, tx, q, typ)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

// ReserveCandidates is a plain SELECT: earliest stock first, never more
// than qty rows, no locks taken and nothing mutated.
func (r *codeRepo) ReserveCandidates(ctx context.Context, tx repository.Tx, typ model.ProductType, qty int) ([]*model.Code, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	const q = `
SELECT id, type, payload, used, created_at
  FROM codes
 WHERE type = $1 AND used = FALSE
 ORDER BY created_at, id
 LIMIT $2;
`
	return r.queryCodes(ctx, tx, q, typ, qty)
}

// MarkUsed flips exactly the given ids. Any id that is unknown or already
// used makes the whole call fail with ErrCodeConflict: fewer rows than ids
// were affected, which under a transaction aborts the commit.
func (r *codeRepo) MarkUsed(ctx context.Context, tx repository.Tx, ids []string) error {
	if len(ids) == 0 {
		return domain.ErrInvalidArgument
	}
	const q = `UPDATE codes SET used = TRUE WHERE id = ANY($1) AND used = FALSE;`
	tag, err := execSQL(ctx, r.pool, tx, q, ids)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if int(tag.RowsAffected()) != len(ids) {
		return domain.ErrCodeConflict
	}
	return nil
}

func (r *codeRepo) ListUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) ([]*model.Code, error) {
	const q = `
SELECT id, type, payload, used, created_at
  FROM codes
 WHERE type = $1 AND used = FALSE
 ORDER BY created_at, id;
`
	return r.queryCodes(ctx, tx, q, typ)
}

func (r *codeRepo) queryCodes(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Code, error) {
	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Code
	for rows.Next() {
		var c model.Code
		if err := rows.Scan(&c.ID, &c.Type, &c.Payload, &c.Used, &c.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, nil
		}
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}
