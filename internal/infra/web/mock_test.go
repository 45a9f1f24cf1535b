//go:build !integration

package web

import (
	"context"
	"errors"

	"telegram-code-store/internal/domain/model"
)

// mockInventoryUC implements the inventory surface the handlers use.
type mockInventoryUC struct {
	counts   map[model.ProductType]int
	countErr error
}

func (m *mockInventoryUC) AddCode(ctx context.Context, typ model.ProductType, payload string) (*model.Code, error) {
	return nil, errors.New("not implemented")
}
func (m *mockInventoryUC) BulkImport(ctx context.Context, typ model.ProductType, payloads []string) (int, error) {
	return 0, errors.New("not implemented")
}
func (m *mockInventoryUC) ParsePayloads(raw string) []string { return nil }
func (m *mockInventoryUC) CountUnused(ctx context.Context, typ model.ProductType) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.counts[typ], nil
}
func (m *mockInventoryUC) ListUnused(ctx context.Context, typ model.ProductType) ([]*model.Code, error) {
	return nil, errors.New("not implemented")
}

// mockReportUC implements the reporting surface the handlers use.
type mockReportUC struct {
	summary    *model.SalesSummary
	summaryErr error
	entries    []model.LeaderboardEntry
	lastLimit  int
}

func (m *mockReportUC) Summarize(ctx context.Context, window model.Window) (*model.SalesSummary, error) {
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	if m.summary == nil {
		return &model.SalesSummary{Window: window}, nil
	}
	return m.summary, nil
}

func (m *mockReportUC) Leaderboard(ctx context.Context, role model.LeaderboardRole, limit int) ([]model.LeaderboardEntry, error) {
	m.lastLimit = limit
	return m.entries, nil
}

func (m *mockReportUC) HistoryFor(ctx context.Context, buyerID string) (map[model.ProductType]int64, error) {
	return nil, errors.New("not implemented")
}
