package service

import (
	"sync"
	"time"

	"leaflow_checkin/internal/cache"
	"leaflow_checkin/internal/config"
	"leaflow_checkin/internal/model"
	"leaflow_checkin/internal/util"
	"leaflow_checkin/pkg/logger"
	"leaflow_checkin/pkg/monitoring"

	"go.uber.org/zap"
)

// SchedulerService 定时签到调度器
// 单个后台 worker 以固定 tick 轮询：取启用账号（缓存优先），逐账号判定
// 今日是否已签、是否在窗口内、探测间隔是否已到，命中则异步派发执行单元。
// tick 循环自身不做任何网络 IO。
type SchedulerService struct {
	Accounts *cache.AccountCache
	Checkin  *CheckinService
	Tracker  *TaskTracker

	loc          *time.Location
	tickInterval time.Duration
	stopTimeout  time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func NewSchedulerService(
	accounts *cache.AccountCache,
	checkin *CheckinService,
	tracker *TaskTracker,
	cfg *config.SchedulerConfig,
	loc *time.Location,
) *SchedulerService {
	return &SchedulerService{
		Accounts:     accounts,
		Checkin:      checkin,
		Tracker:      tracker,
		loc:          loc,
		tickInterval: cfg.TickInterval,
		stopTimeout:  cfg.StopTimeout,
	}
}

// Start 幂等启动，只会有一个循环 worker
func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stopCh, s.done)

	logger.Log.Info("Scheduler started",
		zap.Duration("tick_interval", s.tickInterval),
		zap.String("timezone", s.loc.String()),
	)
}

// Stop 通知循环退出并在限定时间内等待，超时只告警不阻塞关停流程
// 在途的执行单元不强制取消，靠自身 HTTP 超时收尾
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		logger.Log.Info("Scheduler stopped")
	case <-time.After(s.stopTimeout):
		logger.Log.Warn("Scheduler worker did not exit within timeout",
			zap.Duration("timeout", s.stopTimeout),
		)
	}
}

func (s *SchedulerService) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.Tick(time.Now().In(s.loc))
		}
	}
}

// Tick 执行一轮扫描，导出以便测试直接驱动
// 单个账号的处理失败不影响本轮其余账号
func (s *SchedulerService) Tick(now time.Time) {
	monitoring.SchedulerTicks.Inc()

	today := util.DateString(now)
	s.Tracker.Prune(today)

	accounts, err := s.Accounts.GetEnabled()
	if err != nil {
		// 单轮读库失败按空工作集处理，下个 tick 重试
		logger.Log.Warn("Failed to load enabled accounts, skipping tick", zap.Error(err))
		return
	}

	for _, account := range accounts {
		s.evaluate(&account, now, today)
	}
}

func (s *SchedulerService) evaluate(account *model.Account, now time.Time, today string) {
	if account.LastCheckinDate == today {
		return
	}
	if !util.WindowContains(now, account.WindowStart, account.WindowEnd) {
		return
	}

	poll := time.Duration(account.PollIntervalSeconds) * time.Second
	if !s.Tracker.ShouldProbe(account.ID, today, now, poll) {
		return
	}

	logger.Log.Info("Dispatching check-in",
		zap.Uint("account_id", account.ID),
		zap.String("account", account.Name),
	)
	s.Checkin.Dispatch(account.ID)
}
