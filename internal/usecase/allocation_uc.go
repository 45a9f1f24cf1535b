package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/adapter"
	"telegram-code-store/internal/domain/ports/repository"
	"telegram-code-store/internal/infra/metrics"
)

// Compile-time check
var _ AllocationUseCase = (*allocationUC)(nil)

// AllocationUseCase is the fulfillment pipeline: reserve candidate codes,
// deliver them through the external gateway, and only then consume the
// inventory and append the matching ledger row atomically.
type AllocationUseCase interface {
	// Allocate runs Requested -> Reserved -> Delivering -> Committed|Aborted
	// for one request and returns the committed sale plus the delivered codes.
	Allocate(ctx context.Context, typ model.ProductType, qty int, buyerID, sellerID string) (*model.Sale, []*model.Code, error)
	// RecordWithConsumption is the commit step on its own: flip the given
	// codes to used and insert the sale as one transaction.
	RecordWithConsumption(ctx context.Context, buyerID string, typ model.ProductType, qty int, sellerID string, codeIDs []string) (*model.Sale, error)
}

type allocationUC struct {
	codes   repository.CodeRepository
	sales   repository.SaleRepository
	tm      repository.TransactionManager
	gateway adapter.DeliveryGateway

	locks typeLocks
	log   *zerolog.Logger
}

func NewAllocationUseCase(
	codes repository.CodeRepository,
	sales repository.SaleRepository,
	tm repository.TransactionManager,
	gateway adapter.DeliveryGateway,
	logger *zerolog.Logger,
) *allocationUC {
	allocLog := logger.With().Str("component", "AllocationUC").Logger()
	return &allocationUC{codes: codes, sales: sales, tm: tm, gateway: gateway, log: &allocLog}
}

// typeLocks serializes reserve+deliver+commit per product type. Holding the
// lock across the gateway call keeps two requests from reserving (and thus
// delivering) overlapping codes; no database lock is held while delivery is
// pending, since reservation is a plain read.
type typeLocks struct {
	mu    sync.Mutex
	locks map[model.ProductType]*sync.Mutex
}

func (l *typeLocks) forType(typ model.ProductType) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[model.ProductType]*sync.Mutex)
	}
	m, ok := l.locks[typ]
	if !ok {
		m = &sync.Mutex{}
		l.locks[typ] = m
	}
	return m
}

func (u *allocationUC) Allocate(ctx context.Context, typ model.ProductType, qty int, buyerID, sellerID string) (*model.Sale, []*model.Code, error) {
	// Requested: validate before touching anything.
	if !typ.Valid() {
		return nil, nil, domain.ErrUnknownProduct
	}
	if qty <= 0 || buyerID == "" || sellerID == "" {
		return nil, nil, domain.ErrInvalidArgument
	}

	lock := u.locks.forType(typ)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	// Reserved: a side-effect-free read; a crash here loses nothing.
	candidates, err := u.codes.ReserveCandidates(ctx, repository.NoTX, typ, qty)
	if err != nil {
		metrics.IncAllocation(string(typ), "store_error")
		return nil, nil, err
	}
	if len(candidates) < qty {
		metrics.IncAllocation(string(typ), "insufficient_stock")
		return nil, nil, fmt.Errorf("%w: available %d, requested %d", domain.ErrInsufficientStock, len(candidates), qty)
	}

	// Delivering: the one long-latency step. Inventory is still untouched,
	// so a failure aborts with zero cleanup.
	payloads := make([]string, len(candidates))
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		payloads[i] = c.Payload
		ids[i] = c.ID
	}
	if err := u.gateway.Deliver(ctx, buyerID, payloads); err != nil {
		metrics.IncAllocation(string(typ), "delivery_failed")
		u.log.Warn().Err(err).
			Str("type", string(typ)).Int("qty", qty).Str("buyer_id", buyerID).
			Msg("delivery failed, allocation aborted")
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	// Committed: the only irreversible transition.
	sale, err := u.RecordWithConsumption(ctx, buyerID, typ, qty, sellerID, ids)
	if err != nil {
		metrics.IncAllocation(string(typ), "commit_failed")
		u.log.Error().Err(err).
			Str("type", string(typ)).Int("qty", qty).Str("buyer_id", buyerID).
			Msg("commit failed after successful delivery")
		return nil, nil, err
	}

	metrics.IncAllocation(string(typ), "committed")
	metrics.AddCodesDelivered(string(typ), qty)
	u.log.Info().
		Str("type", string(typ)).Int("qty", qty).
		Str("buyer_id", buyerID).Str("seller_id", sellerID).
		Str("sale_id", sale.ID).Dur("took", time.Since(start)).
		Msg("allocation committed")
	return sale, candidates, nil
}

func (u *allocationUC) RecordWithConsumption(ctx context.Context, buyerID string, typ model.ProductType, qty int, sellerID string, codeIDs []string) (*model.Sale, error) {
	sale, err := model.NewSale(buyerID, typ, qty, sellerID)
	if err != nil {
		return nil, err
	}
	if len(codeIDs) != qty {
		return nil, domain.ErrInvalidArgument
	}
	sale.ID = ulid.Make().String()

	err = u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.codes.MarkUsed(ctx, tx, codeIDs); err != nil {
			return err
		}
		return u.sales.Record(ctx, tx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
