//go:build !integration

package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
)

// memStore backs the in-memory repo fakes. Codes and sales live in one
// store so the fake transaction manager can snapshot and restore both,
// mirroring the all-or-nothing commit the Postgres TxManager provides.
type memStore struct {
	mu        sync.Mutex
	codes     map[string]*model.Code
	codeOrder []string
	sales     []*model.Sale
}

func newMemStore() *memStore {
	return &memStore{codes: make(map[string]*model.Code)}
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := newMemStore()
	cp.codeOrder = append([]string(nil), s.codeOrder...)
	for id, c := range s.codes {
		c2 := *c
		cp.codes[id] = &c2
	}
	for _, sale := range s.sales {
		s2 := *sale
		cp.sales = append(cp.sales, &s2)
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = from.codes
	s.codeOrder = from.codeOrder
	s.sales = from.sales
}

// --- CodeRepository fake ---

type memCodeRepo struct {
	store      *memStore
	addErr     error
	reserveErr error
	markErr    error
}

var _ repository.CodeRepository = (*memCodeRepo)(nil)

func newMemCodeRepo(store *memStore) *memCodeRepo { return &memCodeRepo{store: store} }

func (m *memCodeRepo) Add(ctx context.Context, tx repository.Tx, code *model.Code) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	cp := *code
	m.store.codes[code.ID] = &cp
	m.store.codeOrder = append(m.store.codeOrder, code.ID)
	return nil
}

func (m *memCodeRepo) BulkAdd(ctx context.Context, tx repository.Tx, codes []*model.Code) (int, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, code := range codes {
		cp := *code
		m.store.codes[code.ID] = &cp
		m.store.codeOrder = append(m.store.codeOrder, code.ID)
	}
	return len(codes), nil
}

func (m *memCodeRepo) CountUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	n := 0
	for _, c := range m.store.codes {
		if c.Type == typ && !c.Used {
			n++
		}
	}
	return n, nil
}

func (m *memCodeRepo) countUsed(typ model.ProductType) int {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	n := 0
	for _, c := range m.store.codes {
		if c.Type == typ && c.Used {
			n++
		}
	}
	return n
}

func (m *memCodeRepo) ReserveCandidates(ctx context.Context, tx repository.Tx, typ model.ProductType, qty int) ([]*model.Code, error) {
	if m.reserveErr != nil {
		return nil, m.reserveErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*model.Code, 0, qty)
	for _, id := range m.store.codeOrder {
		c := m.store.codes[id]
		if c.Type == typ && !c.Used {
			cp := *c
			out = append(out, &cp)
			if len(out) == qty {
				break
			}
		}
	}
	return out, nil
}

func (m *memCodeRepo) MarkUsed(ctx context.Context, tx repository.Tx, ids []string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, id := range ids {
		c, ok := m.store.codes[id]
		if !ok || c.Used {
			return domain.ErrCodeConflict
		}
	}
	for _, id := range ids {
		m.store.codes[id].Used = true
	}
	return nil
}

func (m *memCodeRepo) ListUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) ([]*model.Code, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []*model.Code
	for _, id := range m.store.codeOrder {
		c := m.store.codes[id]
		if c.Type == typ && !c.Used {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- SaleRepository fake ---

type memSaleRepo struct {
	store     *memStore
	recordErr error
}

var _ repository.SaleRepository = (*memSaleRepo)(nil)

func newMemSaleRepo(store *memStore) *memSaleRepo { return &memSaleRepo{store: store} }

func (m *memSaleRepo) Record(ctx context.Context, tx repository.Tx, sale *model.Sale) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	cp := *sale
	m.store.sales = append(m.store.sales, &cp)
	return nil
}

func (m *memSaleRepo) all() []*model.Sale {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*model.Sale, 0, len(m.store.sales))
	for _, s := range m.store.sales {
		cp := *s
		out = append(out, &cp)
	}
	return out
}

func (m *memSaleRepo) SumByTypeSince(ctx context.Context, tx repository.Tx, since time.Time) (map[model.ProductType]int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make(map[model.ProductType]int64)
	for _, s := range m.store.sales {
		if !since.IsZero() && s.CreatedAt.Before(since) {
			continue
		}
		out[s.Type] += int64(s.Quantity)
	}
	return out, nil
}

func (m *memSaleRepo) SumByIdentity(ctx context.Context, tx repository.Tx, role model.LeaderboardRole, limit int) ([]model.LeaderboardEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	totals := make(map[string]int64)
	for _, s := range m.store.sales {
		if role == model.RoleBuyer {
			totals[s.BuyerID] += int64(s.Quantity)
		} else {
			totals[s.SellerID] += int64(s.Quantity)
		}
	}
	entries := make([]model.LeaderboardEntry, 0, len(totals))
	for id, total := range totals {
		entries = append(entries, model.LeaderboardEntry{Identity: id, TotalQuantity: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalQuantity != entries[j].TotalQuantity {
			return entries[i].TotalQuantity > entries[j].TotalQuantity
		}
		return entries[i].Identity < entries[j].Identity
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *memSaleRepo) SumByTypeForBuyer(ctx context.Context, tx repository.Tx, buyerID string) (map[model.ProductType]int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make(map[model.ProductType]int64)
	for _, s := range m.store.sales {
		if s.BuyerID == buyerID {
			out[s.Type] += int64(s.Quantity)
		}
	}
	return out, nil
}

// --- TransactionManager fake ---

// memTxManager snapshots the store before fn and restores it when fn
// fails, so a commit that errors half-way leaves no partial writes.
type memTxManager struct {
	store *memStore
	txMu  sync.Mutex
}

var _ repository.TransactionManager = (*memTxManager)(nil)

func newMemTxManager(store *memStore) *memTxManager { return &memTxManager{store: store} }

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	before := m.store.snapshot()
	if err := fn(ctx, repository.NoTX); err != nil {
		m.store.restore(before)
		return err
	}
	return nil
}

// --- DeliveryGateway stub ---

type stubGateway struct {
	mu         sync.Mutex
	err        error
	deliveries [][]string
	recipients []string
}

func (g *stubGateway) Deliver(ctx context.Context, recipientID string, payloads []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.deliveries = append(g.deliveries, append([]string(nil), payloads...))
	g.recipients = append(g.recipients, recipientID)
	return nil
}

// --- shared helpers ---

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
