package repository

import (
	"context"
	"time"

	"telegram-code-store/internal/domain/model"
)

// SaleRepository is the port for the append-only sales ledger.
type SaleRepository interface {
	// Record appends one ledger row and assigns its ID.
	Record(ctx context.Context, tx Tx, sale *model.Sale) error

	// SumByTypeSince returns total quantity per type for rows with
	// created_at >= since. A zero since means all time.
	SumByTypeSince(ctx context.Context, tx Tx, since time.Time) (map[model.ProductType]int64, error)
	// SumByIdentity groups rows by buyer or seller identity and returns
	// totals sorted descending by quantity, ties broken by identity,
	// truncated to limit.
	SumByIdentity(ctx context.Context, tx Tx, role model.LeaderboardRole, limit int) ([]model.LeaderboardEntry, error)
	// SumByTypeForBuyer returns one buyer's total quantity per type.
	SumByTypeForBuyer(ctx context.Context, tx Tx, buyerID string) (map[model.ProductType]int64, error)
}
