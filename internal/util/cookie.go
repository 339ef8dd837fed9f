package util

import (
	"encoding/json"
	"fmt"
	"strings"

	"leaflow_checkin/internal/model"
)

// ParseCookieString 解析用户提交的凭据文本，两种格式：
//  1. JSON 对象：{"cookies":{"k":"v"}}，或直接 {"k":"v"}（自动包一层 cookies）
//  2. 分号分隔的 cookie 串：k=v; k2=v2
//
// 空输入、既无合法 JSON 也无 key=value 对时返回 ErrInvalidCookieFormat
func ParseCookieString(input string) (*model.Credential, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrInvalidCookieFormat
	}

	if strings.HasPrefix(input, "{") {
		if cred, ok := parseCookieJSON(input); ok {
			return cred, nil
		}
	}

	cookies := make(map[string]string)
	for _, pair := range strings.Split(input, ";") {
		pair = strings.TrimSpace(pair)
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(pair[:idx])
		value := strings.TrimSpace(pair[idx+1:])
		if key != "" {
			cookies[key] = value
		}
	}

	if len(cookies) == 0 {
		return nil, ErrInvalidCookieFormat
	}
	return &model.Credential{Cookies: cookies}, nil
}

func parseCookieJSON(input string) (*model.Credential, bool) {
	var wrapped struct {
		Cookies map[string]string `json:"cookies"`
	}
	if err := json.Unmarshal([]byte(input), &wrapped); err == nil && len(wrapped.Cookies) > 0 {
		return &model.Credential{Cookies: wrapped.Cookies}, true
	}

	// 没有 cookies 外层时按扁平对象处理
	var flat map[string]string
	if err := json.Unmarshal([]byte(input), &flat); err == nil && len(flat) > 0 {
		return &model.Credential{Cookies: flat}, true
	}
	return nil, false
}

// SerializeCredential 将凭据编码为存储格式（{"cookies":{...}}）
func SerializeCredential(cred *model.Credential) (string, error) {
	data, err := json.Marshal(map[string]interface{}{"cookies": cred.Cookies})
	if err != nil {
		return "", fmt.Errorf("serialize credential: %w", err)
	}
	return string(data), nil
}

// DecodeCredential 从存储格式还原凭据
func DecodeCredential(tokenData string) (*model.Credential, error) {
	var cred model.Credential
	if err := json.Unmarshal([]byte(tokenData), &cred); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	if len(cred.Cookies) == 0 {
		return nil, ErrInvalidCookieFormat
	}
	return &cred, nil
}
