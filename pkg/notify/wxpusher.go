package notify

import (
	"fmt"
)

// WxPusher 开放平台消息推送
type WxPusher struct {
	AppToken string
	UID      string
}

func (w *WxPusher) Name() string { return "wxpusher" }

func (w *WxPusher) Send(title, content string) error {
	payload := map[string]interface{}{
		"appToken":    w.AppToken,
		"content":     content,
		"summary":     title,
		"contentType": 1,
		"uids":        []string{w.UID},
	}
	_, err := postJSON("https://wxpusher.zjiecode.com/api/send/message", payload)
	if err != nil {
		return fmt.Errorf("wxpusher send: %w", err)
	}
	return nil
}
