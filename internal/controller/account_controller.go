package controller

import (
	"errors"
	"strconv"

	"leaflow_checkin/internal/service"
	"leaflow_checkin/internal/util"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	AccountService *service.AccountService
}

func NewAccountController(accountService *service.AccountService) *AccountController {
	return &AccountController{AccountService: accountService}
}

// swagger:model CreateAccountRequest
type CreateAccountRequest struct {
	Name         string `json:"name" binding:"required"`
	TokenData    string `json:"token_data" binding:"required"`
	WindowStart  string `json:"window_start"`
	WindowEnd    string `json:"window_end"`
	PollInterval int    `json:"poll_interval_seconds"`
	RetryBudget  int    `json:"retry_budget"`
}

// List godoc
// @Summary 账号列表
// @Tags 账号
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/accounts [get]
func (c *AccountController) List(ctx *gin.Context) {
	accounts, err := c.AccountService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, accounts)
}

// Create godoc
// @Summary 添加账号
// @Description 解析凭据文本（JSON 或 k=v; 列表）并校验签到窗口后入库
// @Tags 账号
// @Accept  json
// @Produce  json
// @Param   body body CreateAccountRequest true "账号信息"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "凭据或窗口格式错误"
// @Failure 409 {object} util.Response "名称已存在"
// @Router /api/accounts [post]
func (c *AccountController) Create(ctx *gin.Context) {
	var req CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 表单缺省时沿用默认窗口参数
	if req.WindowStart == "" {
		req.WindowStart = "01:00"
	}
	if req.WindowEnd == "" {
		req.WindowEnd = "06:00"
	}
	if req.PollInterval == 0 {
		req.PollInterval = 60
	}

	account, err := c.AccountService.Create(&service.CreateAccountInput{
		Name:         req.Name,
		CookieInput:  req.TokenData,
		WindowStart:  req.WindowStart,
		WindowEnd:    req.WindowEnd,
		PollInterval: req.PollInterval,
		RetryBudget:  req.RetryBudget,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNameTaken):
			util.Error(ctx, 409, err.Error())
		case errors.Is(err, util.ErrInvalidCookieFormat),
			errors.Is(err, util.ErrInvalidWindow),
			errors.Is(err, util.ErrInvalidTimeOfDay),
			errors.Is(err, util.ErrPollIntervalTooLow),
			errors.Is(err, util.ErrNegativeRetryBudget):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": account.ID})
}

// swagger:model UpdateAccountRequest
type UpdateAccountRequest struct {
	Enabled      *bool   `json:"enabled"`
	TokenData    *string `json:"token_data"`
	WindowStart  *string `json:"window_start"`
	WindowEnd    *string `json:"window_end"`
	PollInterval *int    `json:"poll_interval_seconds"`
	RetryBudget  *int    `json:"retry_budget"`
}

// Update godoc
// @Summary 编辑账号
// @Description 部分更新：仅提交的字段生效
// @Tags 账号
// @Accept  json
// @Produce  json
// @Param   id path int true "账号 ID"
// @Param   body body UpdateAccountRequest true "更新字段"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/accounts/{id} [put]
func (c *AccountController) Update(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid account id")
		return
	}

	var req UpdateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err = c.AccountService.Update(id, &service.UpdateAccountInput{
		Enabled:      req.Enabled,
		CookieInput:  req.TokenData,
		WindowStart:  req.WindowStart,
		WindowEnd:    req.WindowEnd,
		PollInterval: req.PollInterval,
		RetryBudget:  req.RetryBudget,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAccountNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidCookieFormat),
			errors.Is(err, util.ErrInvalidWindow),
			errors.Is(err, util.ErrInvalidTimeOfDay),
			errors.Is(err, util.ErrPollIntervalTooLow),
			errors.Is(err, util.ErrNegativeRetryBudget):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Account updated successfully"})
}

// Delete godoc
// @Summary 删除账号
// @Description 连同签到历史一起删除
// @Tags 账号
// @Produce json
// @Param   id path int true "账号 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/accounts/{id} [delete]
func (c *AccountController) Delete(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid account id")
		return
	}

	if err := c.AccountService.Delete(id); err != nil {
		if errors.Is(err, util.ErrAccountNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Account deleted successfully"})
}

// History godoc
// @Summary 账号签到历史
// @Tags 账号
// @Produce json
// @Param   id path int true "账号 ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response
// @Router /api/accounts/{id}/history [get]
func (c *AccountController) History(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid account id")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	records, total, err := c.AccountService.History(id, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"list":  records,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func parseID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
