//go:build !integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
)

var errMockCacheMiss = errors.New("mock cache miss")

func TestCodeRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("CountUnused should return from cache on hit", func(t *testing.T) {
		// Arrange
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "42", nil // Simulate cache hit
			},
		}
		innerRepoCalled := false
		mockInnerRepo := &mockInnerCodeRepo{
			CountUnusedFunc: func(ctx context.Context, tx repository.Tx, typ model.ProductType) (int, error) {
				innerRepoCalled = true // This should not be called
				return 0, nil
			},
		}

		decorator := NewCodeRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		// Act
		n, err := decorator.CountUnused(ctx, nil, model.ProductShortTerm)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerRepoCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if n != 42 {
			t.Errorf("expected cached count 42, got %d", n)
		}
	})

	t.Run("CountUnused should fall through and populate cache on miss", func(t *testing.T) {
		var setKey, setVal string
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", errMockCacheMiss
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey = key
				setVal, _ = value.(string)
				return nil
			},
		}
		mockInnerRepo := &mockInnerCodeRepo{
			CountUnusedFunc: func(ctx context.Context, tx repository.Tx, typ model.ProductType) (int, error) {
				return 7, nil
			},
		}
		decorator := NewCodeRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		n, err := decorator.CountUnused(ctx, nil, model.ProductLongTerm)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != 7 {
			t.Errorf("expected count 7, got %d", n)
		}
		if setKey != "stock:VIP30D" || setVal != "7" {
			t.Errorf("cache not populated correctly: key=%q val=%q", setKey, setVal)
		}
	})

	t.Run("Add should invalidate the cached count for its type", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerCodeRepo{
			AddFunc: func(ctx context.Context, tx repository.Tx, code *model.Code) error {
				return nil
			},
		}
		decorator := NewCodeRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		code, _ := model.NewCode("", model.ProductShortTerm, "SECRET-1")
		if err := decorator.Add(ctx, nil, code); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 1 || deletedKeys[0] != "stock:VIP7D" {
			t.Errorf("expected stock:VIP7D to be invalidated, got %v", deletedKeys)
		}
	})

	t.Run("MarkUsed should invalidate every type", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerCodeRepo{
			MarkUsedFunc: func(ctx context.Context, tx repository.Tx, ids []string) error {
				return nil
			},
		}
		decorator := NewCodeRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		if err := decorator.MarkUsed(ctx, nil, []string{"a", "b"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != len(model.AllProductTypes()) {
			t.Errorf("expected %d invalidations, got %v", len(model.AllProductTypes()), deletedKeys)
		}
	})

	t.Run("MarkUsed failure should not touch the cache", func(t *testing.T) {
		delCalled := false
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				delCalled = true
				return nil
			},
		}
		wantErr := errors.New("conflict")
		mockInnerRepo := &mockInnerCodeRepo{
			MarkUsedFunc: func(ctx context.Context, tx repository.Tx, ids []string) error {
				return wantErr
			},
		}
		decorator := NewCodeRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		if err := decorator.MarkUsed(ctx, nil, []string{"a"}); !errors.Is(err, wantErr) {
			t.Fatalf("expected inner error, got %v", err)
		}
		if delCalled {
			t.Error("cache should not be invalidated when the write fails")
		}
	})
}
