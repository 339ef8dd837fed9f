// Package notify 实现各通知渠道的出站推送
// 每个渠道自带超时，失败只返回错误，由上层决定是否记录
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender 单个通知渠道
type Sender interface {
	Name() string
	Send(title, content string) error
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// postJSON 发送 JSON 请求并校验 HTTP 状态码
func postJSON(url string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return body, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
