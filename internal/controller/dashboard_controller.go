package controller

import (
	"leaflow_checkin/internal/service"
	"leaflow_checkin/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 面板统计
// @Description 账号总数、今日签到、成功率与近 7 天按日聚合
// @Tags 面板
// @Produce json
// @Success 200 {object} util.Response{data=service.DashboardStats}
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	stats, err := c.DashboardService.GetStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
