package controller

import (
	"errors"

	"leaflow_checkin/internal/model"
	"leaflow_checkin/internal/service"
	"leaflow_checkin/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// GetSettings godoc
// @Summary 通知设置
// @Tags 通知
// @Produce json
// @Success 200 {object} util.Response{data=model.NotificationSetting}
// @Router /api/notification [get]
func (c *NotificationController) GetSettings(ctx *gin.Context) {
	setting, err := c.NotificationService.GetSettings()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Success(ctx, gin.H{})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, setting)
}

// swagger:model UpdateNotificationRequest
type UpdateNotificationRequest struct {
	Enabled          bool   `json:"enabled"`
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramUserID   string `json:"telegram_user_id"`
	WechatWebhookKey string `json:"wechat_webhook_key"`
	WxPusherAppToken string `json:"wxpusher_app_token"`
	WxPusherUID      string `json:"wxpusher_uid"`
	DingTalkWebhook  string `json:"dingtalk_webhook"`
	DingTalkSecret   string `json:"dingtalk_secret"`
}

// UpdateSettings godoc
// @Summary 更新通知设置
// @Tags 通知
// @Accept  json
// @Produce json
// @Param   body body UpdateNotificationRequest true "通知渠道配置"
// @Success 200 {object} util.Response
// @Router /api/notification [put]
func (c *NotificationController) UpdateSettings(ctx *gin.Context) {
	var req UpdateNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	setting := &model.NotificationSetting{
		Enabled:          req.Enabled,
		TelegramBotToken: req.TelegramBotToken,
		TelegramUserID:   req.TelegramUserID,
		WechatWebhookKey: req.WechatWebhookKey,
		WxPusherAppToken: req.WxPusherAppToken,
		WxPusherUID:      req.WxPusherUID,
		DingTalkWebhook:  req.DingTalkWebhook,
		DingTalkSecret:   req.DingTalkSecret,
	}

	if err := c.NotificationService.UpdateSettings(setting); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Notification settings updated"})
}

// SendTest godoc
// @Summary 测试通知
// @Description 向所有已配置渠道发送一条测试消息
// @Tags 通知
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/notification/test [post]
func (c *NotificationController) SendTest(ctx *gin.Context) {
	go c.NotificationService.Send("LeafLow Check-in Panel", "这是一条测试通知")
	util.Success(ctx, gin.H{"message": "Test notification sent"})
}
