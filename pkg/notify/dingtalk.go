package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"
)

// DingTalk 钉钉群机器人 webhook 推送，配置了加签密钥时附带签名
type DingTalk struct {
	Webhook string
	Secret  string
}

func (d *DingTalk) Name() string { return "dingtalk" }

func (d *DingTalk) Send(title, content string) error {
	target := d.Webhook
	if d.Secret != "" {
		timestamp := time.Now().UnixMilli()
		sign := d.sign(timestamp)
		target = fmt.Sprintf("%s&timestamp=%d&sign=%s", d.Webhook, timestamp, url.QueryEscape(sign))
	}

	payload := map[string]interface{}{
		"msgtype": "text",
		"text": map[string]string{
			"content": title + "\n" + content,
		},
	}
	_, err := postJSON(target, payload)
	if err != nil {
		return fmt.Errorf("dingtalk send: %w", err)
	}
	return nil
}

func (d *DingTalk) sign(timestamp int64) string {
	msg := fmt.Sprintf("%d\n%s", timestamp, d.Secret)
	h := hmac.New(sha256.New, []byte(d.Secret))
	h.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
