// Package leaflow 实现 LeafLow 站点的签到协议：
// 携带账号 cookie 探测登录态，提取 CSRF token 后提交签到请求，
// 按响应文本启发式判断结果。协议本身是尽力而为的外部能力。
package leaflow

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"leaflow_checkin/internal/model"
)

const (
	dashboardPath = "/dashboard"
	checkinPath   = "/checkin"
)

var (
	csrfMetaPattern  = regexp.MustCompile(`<meta\s+name="csrf-token"\s+content="([^"]+)"`)
	csrfInputPattern = regexp.MustCompile(`name="_token"\s+value="([^"]+)"`)
)

// 响应文本启发式，命中任意一个即视为签到成功
var successMarkers = []string{
	"签到成功",
	"已签到",
	"已经签到",
	"checked in successfully",
	"already checked in",
	"check-in successful",
	"success",
}

type Client struct {
	baseURL   string
	userAgent string
	hc        *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		hc: &http.Client{
			Timeout: timeout,
			// 不自动跟随跳转：跳到登录页本身就是判定信号
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Run 执行一次完整签到：认证探测 → CSRF 提取 → 提交签到
// 永不 panic；任何协议层错误都折叠为 (false, 错误描述)
func (c *Client) Run(cred *model.Credential) (bool, string) {
	body, err := c.probeAuth(cred)
	if err != nil {
		return false, err.Error()
	}

	token := extractCSRFToken(body)

	result, err := c.submitCheckin(cred, token)
	if err != nil {
		return false, err.Error()
	}
	return result.success, result.message
}

// probeAuth 带 cookie 请求面板页，确认会话仍然有效
func (c *Client) probeAuth(cred *model.Credential) (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+dashboardPath, nil)
	if err != nil {
		return "", err
	}
	c.decorate(req, cred, "")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("连接站点失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		loc := resp.Header.Get("Location")
		if strings.Contains(loc, "login") || strings.Contains(loc, "auth") {
			return "", fmt.Errorf("认证失败：会话已过期，请更新 cookie")
		}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("认证失败：HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type checkinResult struct {
	success bool
	message string
}

func (c *Client) submitCheckin(cred *model.Credential, csrfToken string) (*checkinResult, error) {
	form := url.Values{}
	if csrfToken != "" {
		form.Set("_token", csrfToken)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+checkinPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	c.decorate(req, cred, csrfToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("签到请求失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	text := string(data)

	if ok, marker := matchSuccess(text); ok {
		return &checkinResult{success: true, message: marker}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return &checkinResult{
			success: false,
			message: fmt.Sprintf("签到失败：HTTP %d", resp.StatusCode),
		}, nil
	}
	return &checkinResult{success: false, message: trimMessage(text)}, nil
}

func (c *Client) decorate(req *http.Request, cred *model.Credential, csrfToken string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/json")
	if csrfToken != "" {
		req.Header.Set("X-CSRF-TOKEN", csrfToken)
	}
	for name, value := range cred.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func extractCSRFToken(html string) string {
	if m := csrfMetaPattern.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	if m := csrfInputPattern.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

func matchSuccess(body string) (bool, string) {
	lower := strings.ToLower(body)
	for _, marker := range successMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true, marker
		}
	}
	return false, ""
}

// trimMessage 把站点返回截断成适合入库/推送的一行
func trimMessage(body string) string {
	msg := strings.TrimSpace(body)
	if idx := strings.IndexByte(msg, '\n'); idx > 0 {
		msg = msg[:idx]
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "签到失败：响应为空"
	}
	return msg
}
