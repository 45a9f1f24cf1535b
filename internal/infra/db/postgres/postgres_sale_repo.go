package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
)

var _ repository.SaleRepository = (*saleRepo)(nil)

type saleRepo struct {
	pool *pgxpool.Pool
}

func NewSaleRepo(pool *pgxpool.Pool) repository.SaleRepository {
	return &saleRepo{pool: pool}
}

func (r *saleRepo) Record(ctx context.Context, tx repository.Tx, sale *model.Sale) error {
	if sale.Quantity <= 0 || sale.BuyerID == "" || sale.SellerID == "" {
		return domain.ErrInvalidArgument
	}
	if sale.ID == "" {
		sale.ID = ulid.Make().String()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}

	const q = `
INSERT INTO sales (id, buyer_id, type, qty, seller_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		sale.ID, sale.BuyerID, sale.Type, sale.Quantity, sale.SellerID, sale.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *saleRepo) SumByTypeSince(ctx context.Context, tx repository.Tx, since time.Time) (map[model.ProductType]int64, error) {
	const q = `
SELECT type, COALESCE(SUM(qty), 0)
  FROM sales
 WHERE ($1::timestamptz IS NULL OR created_at >= $1)
 GROUP BY type;
`
	var sinceArg interface{}
	if !since.IsZero() {
		sinceArg = since
	}
	rows, err := pickRows(ctx, r.pool, tx, q, sinceArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.ProductType]int64)
	for rows.Next() {
		var typ model.ProductType
		var total int64
		if err := rows.Scan(&typ, &total); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[typ] = total
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}

func (r *saleRepo) SumByIdentity(ctx context.Context, tx repository.Tx, role model.LeaderboardRole, limit int) ([]model.LeaderboardEntry, error) {
	var column string
	switch role {
	case model.RoleBuyer:
		column = "buyer_id"
	case model.RoleSeller:
		column = "seller_id"
	default:
		return nil, domain.ErrInvalidArgument
	}
	if limit <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	// column is one of two fixed names selected above, never user input.
	q := `
SELECT ` + column + `, COALESCE(SUM(qty), 0) AS total
  FROM sales
 GROUP BY ` + column + `
 ORDER BY total DESC, ` + column + ` ASC
 LIMIT $1;
`
	rows, err := pickRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.Identity, &e.TotalQuantity); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}

func (r *saleRepo) SumByTypeForBuyer(ctx context.Context, tx repository.Tx, buyerID string) (map[model.ProductType]int64, error) {
	if buyerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	const q = `
SELECT type, COALESCE(SUM(qty), 0)
  FROM sales
 WHERE buyer_id = $1
 GROUP BY type;
`
	rows, err := pickRows(ctx, r.pool, tx, q, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.ProductType]int64)
	for rows.Next() {
		var typ model.ProductType
		var total int64
		if err := rows.Scan(&typ, &total); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[typ] = total
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}
