package repository

import (
	"context"

	"telegram-code-store/internal/domain/model"
)

// CodeRepository is the port for the durable code inventory.
type CodeRepository interface {
	// Add inserts one new unused code.
	Add(ctx context.Context, tx Tx, code *model.Code) error
	// BulkAdd inserts many codes as a single atomic batch and returns the
	// number inserted. Duplicate payloads are allowed; codes are only
	// distinguished by identity.
	BulkAdd(ctx context.Context, tx Tx, codes []*model.Code) (int, error)
	// CountUnused returns the number of unused codes of a type.
	CountUnused(ctx context.Context, tx Tx, typ model.ProductType) (int, error)
	// ReserveCandidates returns up to qty currently-unused codes of a type,
	// earliest-inserted-first. It is a plain read: it never mutates state and
	// returns fewer rows when stock is short.
	ReserveCandidates(ctx context.Context, tx Tx, typ model.ProductType, qty int) ([]*model.Code, error)
	// MarkUsed flips used for exactly the given ids. It fails with
	// domain.ErrCodeConflict if any id is already used or unknown.
	MarkUsed(ctx context.Context, tx Tx, ids []string) error
	// ListUnused returns all unused codes of a type, freshly queried.
	ListUnused(ctx context.Context, tx Tx, typ model.ProductType) ([]*model.Code, error)
}
