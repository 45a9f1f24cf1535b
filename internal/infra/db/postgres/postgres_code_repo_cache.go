package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
	"telegram-code-store/internal/infra/metrics"
	red "telegram-code-store/internal/infra/redis"
)

var _ repository.CodeRepository = (*codeRepoCacheDecorator)(nil)

// codeRepoCacheDecorator caches unused-stock counts in Redis. Counts are
// the hot read path (stock view, live stock worker), while every write
// path invalidates the cached count for the affected type.
type codeRepoCacheDecorator struct {
	inner repository.CodeRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCodeRepoCacheDecorator(inner repository.CodeRepository, cache red.RedisClient, ttl time.Duration) repository.CodeRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &codeRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func stockKey(typ model.ProductType) string {
	return fmt.Sprintf("stock:%s", typ)
}

func (d *codeRepoCacheDecorator) CountUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) (int, error) {
	key := stockKey(typ)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		if n, convErr := strconv.Atoi(val); convErr == nil {
			metrics.IncCacheRequest("stock", "hit")
			return n, nil
		}
	}

	metrics.IncCacheRequest("stock", "miss")
	n, err := d.inner.CountUnused(ctx, tx, typ)
	if err != nil {
		return 0, err
	}
	d.cache.Set(ctx, key, strconv.Itoa(n), d.ttl)
	return n, nil
}

// Write operations invalidate the cached count for the affected type.

func (d *codeRepoCacheDecorator) Add(ctx context.Context, tx repository.Tx, code *model.Code) error {
	if err := d.inner.Add(ctx, tx, code); err != nil {
		return err
	}
	d.cache.Del(ctx, stockKey(code.Type))
	return nil
}

func (d *codeRepoCacheDecorator) BulkAdd(ctx context.Context, tx repository.Tx, codes []*model.Code) (int, error) {
	n, err := d.inner.BulkAdd(ctx, tx, codes)
	if err != nil {
		return n, err
	}
	seen := make(map[model.ProductType]struct{}, 2)
	for _, code := range codes {
		if _, ok := seen[code.Type]; ok {
			continue
		}
		seen[code.Type] = struct{}{}
		d.cache.Del(ctx, stockKey(code.Type))
	}
	return n, nil
}

// MarkUsed cannot tell which types the ids belong to, so it drops every
// type's cached count.
func (d *codeRepoCacheDecorator) MarkUsed(ctx context.Context, tx repository.Tx, ids []string) error {
	if err := d.inner.MarkUsed(ctx, tx, ids); err != nil {
		return err
	}
	for _, typ := range model.AllProductTypes() {
		d.cache.Del(ctx, stockKey(typ))
	}
	return nil
}

func (d *codeRepoCacheDecorator) ReserveCandidates(ctx context.Context, tx repository.Tx, typ model.ProductType, qty int) ([]*model.Code, error) {
	return d.inner.ReserveCandidates(ctx, tx, typ, qty)
}

func (d *codeRepoCacheDecorator) ListUnused(ctx context.Context, tx repository.Tx, typ model.ProductType) ([]*model.Code, error) {
	return d.inner.ListUnused(ctx, tx, typ)
}
