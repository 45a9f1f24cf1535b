package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"context"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/ports/adapter"
)

// Code payloads beyond this count go out as an attached file instead of a
// plain message.
const maxPayloadsPerMessage = 5

var _ adapter.DeliveryGateway = (*DMDeliveryGateway)(nil)

// DMDeliveryGateway delivers code payloads over Telegram. A numeric
// recipient is treated as a chat ID and messaged directly; anything else
// falls back to the configured log chat with the recipient named in the text.
type DMDeliveryGateway struct {
	bot            adapter.TelegramBotAdapter
	fallbackChatID int64
}

func NewDMDeliveryGateway(bot adapter.TelegramBotAdapter, fallbackChatID int64) *DMDeliveryGateway {
	return &DMDeliveryGateway{bot: bot, fallbackChatID: fallbackChatID}
}

func (g *DMDeliveryGateway) Deliver(ctx context.Context, recipientID string, payloads []string) error {
	if len(payloads) == 0 {
		return domain.ErrInvalidArgument
	}

	chatID, direct := resolveChat(recipientID)
	if !direct {
		chatID = g.fallbackChatID
	}
	if chatID == 0 {
		return fmt.Errorf("%w: no chat for recipient %q", domain.ErrDeliveryFailed, recipientID)
	}

	header := "Your codes:"
	if !direct {
		header = fmt.Sprintf("Codes for %s:", recipientID)
	}

	if len(payloads) > maxPayloadsPerMessage {
		content := strings.Join(payloads, "\n") + "\n"
		if err := g.bot.SendDocument(ctx, chatID, "codes.txt", []byte(content), header); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
		}
		return nil
	}

	text := header + "\n" + strings.Join(payloads, "\n")
	if err := g.bot.SendMessage(ctx, chatID, text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

func resolveChat(recipientID string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(recipientID), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
