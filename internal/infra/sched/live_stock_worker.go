package sched

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/infra/metrics"
	"telegram-code-store/internal/usecase"
)

// StockMessenger is the slice of the bot surface the worker needs: keep one
// message in the stock chat and rewrite it in place.
type StockMessenger interface {
	SendMessageForID(ctx context.Context, chatID int64, text string) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
}

// LiveStockWorker keeps one pinned-style message in the stock chat showing
// current unused counts, refreshed on a fixed interval. Counts come through
// the cached repository so the ticker does not hammer the database.
type LiveStockWorker struct {
	interval time.Duration
	chatID   int64
	invUC    usecase.InventoryUseCase
	catalog  model.Catalog
	bot      StockMessenger
	log      *zerolog.Logger

	messageID int
	lastText  string
}

func NewLiveStockWorker(
	interval time.Duration,
	chatID int64,
	invUC usecase.InventoryUseCase,
	catalog model.Catalog,
	bot StockMessenger,
	logger *zerolog.Logger,
) *LiveStockWorker {
	wLog := logger.With().Str("component", "LiveStockWorker").Logger()
	return &LiveStockWorker{
		interval: interval,
		chatID:   chatID,
		invUC:    invUC,
		catalog:  catalog,
		bot:      bot,
		log:      &wLog,
	}
}

func (w *LiveStockWorker) Run(ctx context.Context) error {
	if w.chatID == 0 {
		w.log.Info().Msg("no live stock chat configured, worker idle")
		<-ctx.Done()
		return ctx.Err()
	}

	w.log.Info().Dur("interval", w.interval).Msg("Starting live stock worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping live stock worker")
			return ctx.Err()
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				w.log.Error().Err(err).Msg("live stock refresh failed")
			}
		}
	}
}

func (w *LiveStockWorker) refresh(ctx context.Context) error {
	text, err := w.render(ctx)
	if err != nil {
		return err
	}
	if text == w.lastText {
		return nil
	}

	if w.messageID == 0 {
		id, err := w.bot.SendMessageForID(ctx, w.chatID, text)
		if err != nil {
			return err
		}
		w.messageID = id
		w.lastText = text
		return nil
	}

	if err := w.bot.EditMessage(ctx, w.chatID, w.messageID, text); err != nil {
		// The message may have been deleted from the chat; post a fresh one.
		id, sendErr := w.bot.SendMessageForID(ctx, w.chatID, text)
		if sendErr != nil {
			return fmt.Errorf("edit failed (%v), resend failed: %w", err, sendErr)
		}
		w.messageID = id
	}
	w.lastText = text
	return nil
}

func (w *LiveStockWorker) render(ctx context.Context) (string, error) {
	var sb strings.Builder
	sb.WriteString("Live stock\n")
	for _, typ := range model.AllProductTypes() {
		n, err := w.invUC.CountUnused(ctx, typ)
		if err != nil {
			return "", err
		}
		metrics.SetUnusedCodes(string(typ), n)
		product, err := w.catalog.Lookup(typ)
		if err != nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d\n", product.Title, n))
	}
	return sb.String(), nil
}
