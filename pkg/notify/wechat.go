package notify

import (
	"fmt"
)

// WechatWork 企业微信群机器人 webhook 推送
type WechatWork struct {
	WebhookKey string
}

func (w *WechatWork) Name() string { return "wechat_work" }

func (w *WechatWork) Send(title, content string) error {
	url := fmt.Sprintf("https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key=%s", w.WebhookKey)
	payload := map[string]interface{}{
		"msgtype": "text",
		"text": map[string]string{
			"content": title + "\n" + content,
		},
	}
	_, err := postJSON(url, payload)
	if err != nil {
		return fmt.Errorf("wechat work send: %w", err)
	}
	return nil
}
