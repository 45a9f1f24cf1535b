package adapter

import "context"

// TelegramBotAdapter is the outbound port the core uses to talk back to chat.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendDocument sends text content as an attached file, used when a code
	// list is too long for a message.
	SendDocument(ctx context.Context, chatID int64, filename string, content []byte, caption string) error
}
