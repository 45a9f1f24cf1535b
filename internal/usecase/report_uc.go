package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
)

// Compile-time check
var _ ReportUseCase = (*reportUC)(nil)

const defaultLeaderboardLimit = 10

// ReportUseCase is the read-side aggregator over the sales ledger. Every
// method is a pure function of ledger state at call time.
type ReportUseCase interface {
	Summarize(ctx context.Context, window model.Window) (*model.SalesSummary, error)
	Leaderboard(ctx context.Context, role model.LeaderboardRole, limit int) ([]model.LeaderboardEntry, error)
	HistoryFor(ctx context.Context, buyerID string) (map[model.ProductType]int64, error)
}

type reportUC struct {
	sales   repository.SaleRepository
	catalog model.Catalog
	loc     *time.Location
	now     func() time.Time

	log *zerolog.Logger
}

func NewReportUseCase(sales repository.SaleRepository, catalog model.Catalog, loc *time.Location, logger *zerolog.Logger) *reportUC {
	repLog := logger.With().Str("component", "ReportUC").Logger()
	return &reportUC{sales: sales, catalog: catalog, loc: loc, now: time.Now, log: &repLog}
}

func (u *reportUC) Summarize(ctx context.Context, window model.Window) (*model.SalesSummary, error) {
	start, bounded, err := window.Start(u.now(), u.loc)
	if err != nil {
		return nil, err
	}
	if !bounded {
		start = time.Time{}
	}
	byType, err := u.sales.SumByTypeSince(ctx, repository.NoTX, start)
	if err != nil {
		return nil, err
	}

	summary := &model.SalesSummary{
		Window:  window,
		PerType: make(map[model.ProductType]model.TypeTotal, len(byType)),
	}
	for typ, qty := range byType {
		var revenue int64
		if p, err := u.catalog.Lookup(typ); err == nil {
			revenue = p.UnitPrice * qty
		}
		summary.PerType[typ] = model.TypeTotal{Quantity: qty, Revenue: revenue}
		summary.TotalQuantity += qty
		summary.TotalRevenue += revenue
	}
	return summary, nil
}

func (u *reportUC) Leaderboard(ctx context.Context, role model.LeaderboardRole, limit int) ([]model.LeaderboardEntry, error) {
	if role != model.RoleBuyer && role != model.RoleSeller {
		return nil, domain.ErrInvalidArgument
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	return u.sales.SumByIdentity(ctx, repository.NoTX, role, limit)
}

func (u *reportUC) HistoryFor(ctx context.Context, buyerID string) (map[model.ProductType]int64, error) {
	if buyerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.sales.SumByTypeForBuyer(ctx, repository.NoTX, buyerID)
}
