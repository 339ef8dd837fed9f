package notify

import (
	"fmt"
)

// Telegram Bot API sendMessage 推送
type Telegram struct {
	BotToken string
	UserID   string
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(title, content string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)
	payload := map[string]interface{}{
		"chat_id": t.UserID,
		"text":    title + "\n\n" + content,
	}
	_, err := postJSON(url, payload)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
