//go:build !integration

package postgres

import (
	"context"
	"time"

	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
	red "telegram-code-store/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCodeRepo mocks the database repository that the decorator wraps.
type mockInnerCodeRepo struct {
	AddFunc               func(ctx context.Context, tx repository.Tx, code *model.Code) error
	BulkAddFunc           func(ctx context.Context, tx repository.Tx, codes []*model.Code) (int, error)
	CountUnusedFunc       func(ctx context.Context, tx repository.Tx, typ model.ProductType) (int, error)
	ReserveCandidatesFunc func(ctx context.Context, tx repository.Tx, typ model.ProductType, qty int) ([]*model.Code, error)
	MarkUsedFunc          func(ctx context.Context, tx repository.Tx, ids []string) error
	ListUnusedFunc        func(ctx context.Context, tx repository.Tx, typ model.ProductType) ([]*model.Code, error)
}

func (m *mockInnerCodeRepo) Add(ctx context.Context, tx repository.Tx, code *model.Code) error {
	return m.AddFunc(ctx, tx, code)
}
func (m *mockInnerCodeRepo) BulkAdd(ctx context.Context, tx repository.Tx, codes []*model.Code) (int, error) {
	return m.BulkAddFunc(ctx, tx, codes)
}
func (m *mockInnerCodeRepo) CountUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) (int, error) {
	return m.CountUnusedFunc(ctx, tx, typ)
}
func (m *mockInnerCodeRepo) ReserveCandidates(ctx context.Context, tx repository.Tx, typ model.ProductType, qty int) ([]*model.Code, error) {
	return m.ReserveCandidatesFunc(ctx, tx, typ, qty)
}
func (m *mockInnerCodeRepo) MarkUsed(ctx context.Context, tx repository.Tx, ids []string) error {
	return m.MarkUsedFunc(ctx, tx, ids)
}
func (m *mockInnerCodeRepo) ListUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) ([]*model.Code, error) {
	return m.ListUnusedFunc(ctx, tx, typ)
}

// mockRedisClient mocks our Redis client wrapper. Unset funcs behave as
// harmless no-ops so tests only wire what they assert on.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", errMockCacheMiss
	}
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx)
}
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc == nil {
		return 0, nil
	}
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc == nil {
		return nil
	}
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc()
}
