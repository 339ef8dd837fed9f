package service

import (
	"errors"

	"leaflow_checkin/internal/cache"
	"leaflow_checkin/internal/model"
	"leaflow_checkin/internal/repository"
	"leaflow_checkin/pkg/logger"
	"leaflow_checkin/pkg/notify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notificationSettingsCacheKey = "notification:settings"

// NotificationService 通知设置管理 + 多渠道扇出
// Send 永不失败：渠道故障只记日志，绝不阻塞或影响调用方
type NotificationService struct {
	Repo  *repository.NotificationRepository
	Cache *cache.Cache
}

func NewNotificationService(repo *repository.NotificationRepository, c *cache.Cache) *NotificationService {
	return &NotificationService{Repo: repo, Cache: c}
}

// GetSettings 读穿缓存获取全局设置行
func (s *NotificationService) GetSettings() (*model.NotificationSetting, error) {
	if v, ok := s.Cache.Get(notificationSettingsCacheKey); ok {
		if setting, ok := v.(*model.NotificationSetting); ok {
			return setting, nil
		}
	}

	setting, err := s.Repo.Get()
	if err != nil {
		return nil, err
	}
	s.Cache.Set(notificationSettingsCacheKey, setting)
	return setting, nil
}

// UpdateSettings 保存设置并在返回前失效缓存
func (s *NotificationService) UpdateSettings(setting *model.NotificationSetting) error {
	if err := s.Repo.Update(setting); err != nil {
		return err
	}
	s.Cache.Invalidate(notificationSettingsCacheKey)
	return nil
}

// Send 将 (title, content) 推送到所有已配置渠道
func (s *NotificationService) Send(title, content string) {
	setting, err := s.GetSettings()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Error("Failed to load notification settings", zap.Error(err))
		}
		return
	}
	if !setting.Enabled {
		return
	}

	for _, sender := range s.senders(setting) {
		if err := sender.Send(title, content); err != nil {
			logger.Log.Error("Notification channel failed",
				zap.String("channel", sender.Name()),
				zap.Error(err),
			)
		}
	}
}

// senders 按配置组装启用的渠道列表
func (s *NotificationService) senders(setting *model.NotificationSetting) []notify.Sender {
	var senders []notify.Sender

	if setting.TelegramBotToken != "" && setting.TelegramUserID != "" {
		senders = append(senders, &notify.Telegram{
			BotToken: setting.TelegramBotToken,
			UserID:   setting.TelegramUserID,
		})
	}
	if setting.WechatWebhookKey != "" {
		senders = append(senders, &notify.WechatWork{WebhookKey: setting.WechatWebhookKey})
	}
	if setting.WxPusherAppToken != "" && setting.WxPusherUID != "" {
		senders = append(senders, &notify.WxPusher{
			AppToken: setting.WxPusherAppToken,
			UID:      setting.WxPusherUID,
		})
	}
	if setting.DingTalkWebhook != "" {
		senders = append(senders, &notify.DingTalk{
			Webhook: setting.DingTalkWebhook,
			Secret:  setting.DingTalkSecret,
		})
	}

	return senders
}
