package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-code-store/internal/application"
	"telegram-code-store/internal/config"
	"telegram-code-store/internal/domain/ports/adapter"
	"telegram-code-store/internal/infra/i18n"
	red "telegram-code-store/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	rateLimit   config.RateLimitConfig
	translator  *i18n.Translator
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	rateLimit config.RateLimitConfig,
	facade *application.BotFacade,
	rateLimiter *red.RateLimiter,
	translator *i18n.Translator,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if translator == nil {
		return nil, errors.New("translator is nil")
	}
	updateWorkers := cfg.Workers
	if updateWorkers <= 0 {
		updateWorkers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	botLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		rateLimit:     rateLimit,
		translator:    translator,
		log:           &botLog,
		adminIDsMap:   adminMap,
		updateWorkers: updateWorkers,
	}, nil
}

// SetFacade wires the command layer in after construction. The delivery
// gateway wraps this adapter, and the facade needs that gateway, so the
// facade cannot exist before the adapter does.
func (r *RealTelegramBotAdapter) SetFacade(facade *application.BotFacade) {
	r.facade = facade
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	if r.facade == nil {
		return errors.New("bot facade is not set")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Warn().Err(err).Int("worker", id).Msg("update handler failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	message := update.Message
	if message.From == nil {
		return nil
	}
	if !message.IsCommand() {
		return nil
	}

	command := message.Command()
	if r.rateLimiter != nil {
		key := red.UserCommandKey(message.From.ID, "/"+command)
		allowed, err := r.rateLimiter.Allow(ctx, key, r.rateLimit.PerUser, r.rateLimit.Window)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_rate_limited"))
		}
	}

	if handler, ok := r.commandRoutes()[command]; ok {
		return handler(ctx, message)
	}
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_help"))
}

// SendMessage implements the adapter port.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendDocument sends text content as an attached file.
func (r *RealTelegramBotAdapter) SendDocument(ctx context.Context, chatID int64, filename string, content []byte, caption string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: content})
	doc.Caption = caption
	_, err := r.bot.Send(doc)
	return err
}

// EditMessage rewrites a previously sent message in place. Used by the live
// stock view so the pinned message stays current instead of flooding the chat.
func (r *RealTelegramBotAdapter) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := r.bot.Send(edit)
	return err
}

// SendMessageForID sends and returns the new message's ID.
func (r *RealTelegramBotAdapter) SendMessageForID(ctx context.Context, chatID int64, text string) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	sent, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}
