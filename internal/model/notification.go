package model

import (
	"time"
)

// NotificationSetting 通知渠道配置，全局单行（id=1）
type NotificationSetting struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Enabled          bool      `gorm:"default:true" json:"enabled"`
	TelegramBotToken string    `gorm:"type:text" json:"telegram_bot_token"`
	TelegramUserID   string    `gorm:"type:text" json:"telegram_user_id"`
	WechatWebhookKey string    `gorm:"type:text" json:"wechat_webhook_key"`
	WxPusherAppToken string    `gorm:"type:text" json:"wxpusher_app_token"`
	WxPusherUID      string    `gorm:"type:text" json:"wxpusher_uid"`
	DingTalkWebhook  string    `gorm:"type:text" json:"dingtalk_webhook"`
	DingTalkSecret   string    `gorm:"type:text" json:"dingtalk_secret"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (NotificationSetting) TableName() string {
	return "notification_settings"
}
