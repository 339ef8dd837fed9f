package service

import (
	"errors"
	"fmt"
	"time"

	"leaflow_checkin/internal/cache"
	"leaflow_checkin/internal/model"
	"leaflow_checkin/internal/repository"
	"leaflow_checkin/internal/util"
	"leaflow_checkin/pkg/logger"
	"leaflow_checkin/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckinExecutor 站点签到协议的抽象（pkg/leaflow 实现）
// Run 不返回 error：协议层异常折叠为 (false, 错误描述)
type CheckinExecutor interface {
	Run(cred *model.Credential) (success bool, message string)
}

// CheckinService 带重试的签到执行单元
// 调度器和手动触发接口都经由 Dispatch 进入，共享同一套去重/幂等护栏
type CheckinService struct {
	AccountRepo *repository.AccountRepository
	CheckinRepo *repository.CheckinRepository
	Accounts    *cache.AccountCache
	Executor    CheckinExecutor
	Notifier    *NotificationService
	Tracker     *TaskTracker

	loc          *time.Location
	retryBackoff time.Duration
}

func NewCheckinService(
	accountRepo *repository.AccountRepository,
	checkinRepo *repository.CheckinRepository,
	accounts *cache.AccountCache,
	executor CheckinExecutor,
	notifier *NotificationService,
	tracker *TaskTracker,
	loc *time.Location,
	retryBackoff time.Duration,
) *CheckinService {
	return &CheckinService{
		AccountRepo:  accountRepo,
		CheckinRepo:  checkinRepo,
		Accounts:     accounts,
		Executor:     executor,
		Notifier:     notifier,
		Tracker:      tracker,
		loc:          loc,
		retryBackoff: retryBackoff,
	}
}

// Dispatch 异步派发一个执行单元，任何 panic 都在此边界吞掉，
// 调度器进程绝不因单个账号的执行失败而崩溃
func (s *CheckinService) Dispatch(accountID uint) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Check-in execution panic",
					zap.Uint("account_id", accountID),
					zap.Any("panic", r),
				)
			}
		}()
		s.Execute(accountID, 0)
	}()
}

// Execute 执行一次签到尝试，attempt 为当前重试计数（首次为 0）
// 失败且预算未耗尽时等待固定退避后递归；每层递归都重新过幂等护栏，
// 防止并发的手动触发先行完成后再次签到
func (s *CheckinService) Execute(accountID uint, attempt int) {
	now := time.Now().In(s.loc)
	today := util.DateString(now)

	account, err := s.AccountRepo.FindByID(accountID)
	if err != nil {
		// 入队到执行之间账号可能被删除，按 no-op 跳过
		logger.Log.Warn("Account missing at execution time, skipping",
			zap.Uint("account_id", accountID),
			zap.Error(err),
		)
		return
	}
	if !account.Enabled {
		return
	}

	// 幂等护栏：今日已有终态记录则视为已完成
	if _, err := s.CheckinRepo.FindByAccountAndDate(accountID, today); err == nil {
		s.Tracker.Complete(accountID, today)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Error("Failed to query existing check-in record",
			zap.Uint("account_id", accountID),
			zap.Error(err),
		)
		return
	}

	cred, err := util.DecodeCredential(account.TokenData)
	if err != nil {
		// 库里的凭据损坏属于终态失败，不消耗重试
		s.finish(account, today, false, "凭据解析失败: "+err.Error(), attempt)
		return
	}

	success, message := s.Executor.Run(cred)

	if !success && attempt < account.RetryBudget {
		monitoring.CheckinRetries.Inc()
		logger.Log.Info("Check-in failed, will retry",
			zap.String("account", account.Name),
			zap.Int("attempt", attempt),
			zap.Int("retry_budget", account.RetryBudget),
			zap.String("message", message),
		)
		time.Sleep(s.retryBackoff)
		s.Execute(accountID, attempt+1)
		return
	}

	s.finish(account, today, success, message, attempt)
}

// finish 落一条终态记录、回写账号状态、推送通知并封板当日任务
func (s *CheckinService) finish(account *model.Account, today string, success bool, message string, attempt int) {
	record := &model.CheckinRecord{
		AccountID:   account.ID,
		Success:     success,
		Message:     message,
		CheckinDate: today,
		RetryTimes:  attempt,
	}

	if err := s.CheckinRepo.Create(record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发触发方已先落库，本次结果作废，不重复通知
			logger.Log.Info("Concurrent check-in already recorded",
				zap.String("account", account.Name),
				zap.String("date", today),
			)
			s.Tracker.Complete(account.ID, today)
			return
		}
		// 落库失败不封板，下次探测重新执行（站点侧重复签到是无害的重查）
		logger.Log.Error("Failed to persist check-in record",
			zap.String("account", account.Name),
			zap.Error(err),
		)
		return
	}

	result := "failure"
	if success {
		result = "success"
	}
	monitoring.CheckinCounter.WithLabelValues(result).Inc()

	if success {
		if err := s.AccountRepo.UpdateLastCheckinDate(account.ID, today); err != nil {
			logger.Log.Error("Failed to update last check-in date",
				zap.String("account", account.Name),
				zap.Error(err),
			)
		}
		// 写后失效，调度器下个 tick 拿到新的 last_checkin_date
		s.Accounts.Invalidate()
	}

	s.Tracker.Complete(account.ID, today)

	logger.Log.Info("Check-in finished",
		zap.String("account", account.Name),
		zap.Bool("success", success),
		zap.Int("retry_times", attempt),
		zap.String("message", message),
	)

	status := "❌ Failed"
	if success {
		status = "✅ Success"
	}
	title := fmt.Sprintf("LeafLow Check-in: %s", account.Name)
	content := fmt.Sprintf("%s: %s (retries: %d)", status, message, attempt)
	s.Notifier.Send(title, content)
}
