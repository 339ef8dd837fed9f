package controller

import (
	"leaflow_checkin/internal/service"
	"leaflow_checkin/internal/util"

	"github.com/gin-gonic/gin"
)

type CheckinController struct {
	CheckinService *service.CheckinService
}

func NewCheckinController(checkinService *service.CheckinService) *CheckinController {
	return &CheckinController{CheckinService: checkinService}
}

// ManualTrigger godoc
// @Summary 手动触发签到
// @Description 异步触发指定账号的签到，与调度器共用同一执行单元和当日去重
// @Tags 签到
// @Produce json
// @Param   id path int true "账号 ID"
// @Success 200 {object} util.Response
// @Router /api/checkin/manual/{id} [post]
func (c *CheckinController) ManualTrigger(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid account id")
		return
	}

	c.CheckinService.Dispatch(id)
	util.Success(ctx, gin.H{"message": "Manual check-in triggered"})
}
