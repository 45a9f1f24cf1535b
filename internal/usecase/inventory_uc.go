package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/domain/ports/repository"
	"telegram-code-store/internal/infra/metrics"
)

// Compile-time check
var _ InventoryUseCase = (*inventoryUC)(nil)

// InventoryUseCase covers the code-store operations that add and inspect
// stock. Consumption of stock goes through AllocationUseCase only.
type InventoryUseCase interface {
	AddCode(ctx context.Context, typ model.ProductType, payload string) (*model.Code, error)
	// BulkImport inserts one code per payload as a single atomic batch and
	// returns the number inserted. Payloads are not deduplicated.
	BulkImport(ctx context.Context, typ model.ProductType, payloads []string) (int, error)
	// ParsePayloads splits raw text (one payload per line) into payloads,
	// dropping blank lines.
	ParsePayloads(raw string) []string
	CountUnused(ctx context.Context, typ model.ProductType) (int, error)
	ListUnused(ctx context.Context, typ model.ProductType) ([]*model.Code, error)
}

type inventoryUC struct {
	codes repository.CodeRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewInventoryUseCase(codes repository.CodeRepository, tm repository.TransactionManager, logger *zerolog.Logger) *inventoryUC {
	invLog := logger.With().Str("component", "InventoryUC").Logger()
	return &inventoryUC{codes: codes, tm: tm, log: &invLog}
}

func (u *inventoryUC) AddCode(ctx context.Context, typ model.ProductType, payload string) (*model.Code, error) {
	code, err := model.NewCode(uuid.NewString(), typ, payload)
	if err != nil {
		return nil, err
	}
	if err := u.codes.Add(ctx, repository.NoTX, code); err != nil {
		u.log.Error().Err(err).Str("type", string(typ)).Msg("add code failed")
		return nil, err
	}
	u.log.Info().Str("type", string(typ)).Str("code_id", code.ID).Msg("code added")
	return code, nil
}

func (u *inventoryUC) BulkImport(ctx context.Context, typ model.ProductType, payloads []string) (int, error) {
	if !typ.Valid() {
		return 0, domain.ErrUnknownProduct
	}
	if len(payloads) == 0 {
		return 0, domain.ErrInvalidArgument
	}
	codes := make([]*model.Code, 0, len(payloads))
	for _, p := range payloads {
		c, err := model.NewCode(uuid.NewString(), typ, p)
		if err != nil {
			return 0, err
		}
		codes = append(codes, c)
	}

	var inserted int
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		n, err := u.codes.BulkAdd(ctx, tx, codes)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	})
	if err != nil {
		u.log.Error().Err(err).Str("type", string(typ)).Int("count", len(codes)).Msg("bulk import failed")
		return 0, err
	}
	metrics.AddCodesImported(string(typ), inserted)
	u.log.Info().Str("type", string(typ)).Int("inserted", inserted).Msg("bulk import done")
	return inserted, nil
}

func (u *inventoryUC) ParsePayloads(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func (u *inventoryUC) CountUnused(ctx context.Context, typ model.ProductType) (int, error) {
	if !typ.Valid() {
		return 0, domain.ErrUnknownProduct
	}
	return u.codes.CountUnused(ctx, repository.NoTX, typ)
}

func (u *inventoryUC) ListUnused(ctx context.Context, typ model.ProductType) ([]*model.Code, error) {
	if !typ.Valid() {
		return nil, domain.ErrUnknownProduct
	}
	return u.codes.ListUnused(ctx, repository.NoTX, typ)
}
