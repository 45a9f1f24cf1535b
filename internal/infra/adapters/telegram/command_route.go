package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-code-store/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,
		"stock": r.handleStockCommand,
		"price": r.handlePriceCommand,

		// These handlers are wrapped in our adminOnly middleware.
		"send":        r.adminOnly(r.handleSendCommand),
		"addcode":     r.adminOnly(r.handleAddCodeCommand),
		"import":      r.adminOnly(r.handleImportCommand),
		"codes":       r.adminOnly(r.handleCodesCommand),
		"sales":       r.adminOnly(r.handleSalesCommand),
		"leaderboard": r.adminOnly(r.handleLeaderboardCommand),
		"history":     r.adminOnly(r.handleHistoryCommand),
	}
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if _, isAdmin := r.adminIDsMap[message.From.ID]; !isAdmin {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_unauthorized"))
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_welcome"))
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleHelp())
}

// handleSendCommand runs the sale: /send <buyer> <7d|30d> <qty> [seller].
// The seller defaults to the admin issuing the command.
func (r *RealTelegramBotAdapter) handleSendCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) != 3 && len(args) != 4 {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_usage_send"))
	}
	buyer, typeArg, qtyArg := args[0], args[1], args[2]
	seller := sellerIdentity(message)
	if len(args) == 4 {
		seller = args[3]
	}

	text, err := r.facade.HandleSend(ctx, buyer, typeArg, qtyArg, seller)
	if err != nil {
		r.log.Error().Err(err).Str("buyer", buyer).Msg("send command failed")
		text = r.translator.T("msg_operation_failed")
	} else if r.cfg.PurchaseLogChatID != 0 {
		if logErr := r.SendMessage(ctx, r.cfg.PurchaseLogChatID, text); logErr != nil {
			r.log.Warn().Err(logErr).Msg("failed to write purchase log")
		}
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleAddCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.SplitN(strings.TrimSpace(message.CommandArguments()), " ", 2)
	if len(args) != 2 {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_usage_addcode"))
	}
	text, err := r.facade.HandleAddCode(ctx, args[0], args[1])
	if err != nil {
		r.log.Error().Err(err).Msg("addcode command failed")
		text = r.translator.T("msg_operation_failed")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleImportCommand reads payloads from the lines after the command:
//
//	/import 7d
//	CODE-AAA
//	CODE-BBB
func (r *RealTelegramBotAdapter) handleImportCommand(ctx context.Context, message *tgbotapi.Message) error {
	raw := message.CommandArguments()
	lines := strings.SplitN(raw, "\n", 2)
	typeArg := strings.TrimSpace(lines[0])
	if typeArg == "" || len(lines) < 2 {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_usage_import"))
	}
	text, err := r.facade.HandleImport(ctx, typeArg, lines[1])
	if err != nil {
		r.log.Error().Err(err).Msg("import command failed")
		text = r.translator.T("msg_operation_failed")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleStockCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStock(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("stock command failed")
		text = r.translator.T("msg_operation_failed")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleCodesCommand lists unused payloads; long lists go out as a file.
func (r *RealTelegramBotAdapter) handleCodesCommand(ctx context.Context, message *tgbotapi.Message) error {
	typeArg := strings.TrimSpace(message.CommandArguments())
	if typeArg == "" {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_usage_codes"))
	}
	text, err := r.facade.HandleCodes(ctx, typeArg)
	if err != nil {
		r.log.Error().Err(err).Msg("codes command failed")
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_operation_failed"))
	}
	if strings.Count(text, "\n") > 30 {
		return r.SendDocument(ctx, message.Chat.ID, "codes.txt", []byte(text), "")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleSalesCommand(ctx context.Context, message *tgbotapi.Message) error {
	windowArg := strings.TrimSpace(message.CommandArguments())
	if windowArg == "" {
		windowArg = "today"
	}
	text, err := r.facade.HandleSales(ctx, windowArg)
	if err != nil {
		r.log.Error().Err(err).Msg("sales command failed")
		text = r.translator.T("msg_operation_failed")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleLeaderboardCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	roleArg := "buyer"
	limitArg := ""
	if len(args) > 0 {
		roleArg = args[0]
	}
	if len(args) > 1 {
		limitArg = args[1]
	}
	text, err := r.facade.HandleLeaderboard(ctx, roleArg, limitArg)
	if err != nil {
		r.log.Error().Err(err).Msg("leaderboard command failed")
		text = r.translator.T("msg_operation_failed")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) error {
	buyer := strings.TrimSpace(message.CommandArguments())
	if buyer == "" {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_usage_history"))
	}
	text, err := r.facade.HandleHistory(ctx, buyer)
	if err != nil {
		r.log.Error().Err(err).Msg("history command failed")
		text = r.translator.T("msg_operation_failed")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handlePriceCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		return r.SendMessage(ctx, message.Chat.ID, r.translator.T("msg_usage_price"))
	}
	text, err := r.facade.HandlePrice(ctx, args[0], args[1])
	if err != nil {
		r.log.Error().Err(err).Msg("price command failed")
		text = r.translator.T("msg_operation_failed")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// sellerIdentity defaults the seller to the admin who issued the command.
func sellerIdentity(message *tgbotapi.Message) string {
	if message.From.UserName != "" {
		return message.From.UserName
	}
	return strconv.FormatInt(message.From.ID, 10)
}
