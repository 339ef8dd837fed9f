package util

import "errors"

var (
	ErrAccountNotFound     = errors.New("账号不存在")
	ErrNameTaken           = errors.New("账号名称已存在")
	ErrInvalidCookieFormat = errors.New("invalid cookie format")
	ErrInvalidWindow       = errors.New("签到窗口无效：起始时间必须不晚于结束时间")
	ErrInvalidTimeOfDay    = errors.New("时间格式无效，应为 HH:MM")
	ErrPollIntervalTooLow  = errors.New("轮询间隔不能小于 30 秒")
	ErrNegativeRetryBudget = errors.New("重试次数不能为负数")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
