package service

import (
	"testing"
	"time"

	"leaflow_checkin/internal/config"
	"leaflow_checkin/internal/model"
	"leaflow_checkin/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(env *testEnv) *SchedulerService {
	return NewSchedulerService(env.accounts, env.checkin, env.tracker, &config.SchedulerConfig{
		TickInterval: 10 * time.Millisecond,
		StopTimeout:  time.Second,
	}, time.UTC)
}

func TestTickDispatchesWithinWindow(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	// 全天窗口，真实时钟下必然命中
	account := env.seedAccount(t, nil)
	scheduler := newTestScheduler(env)

	scheduler.Tick(time.Now().UTC())

	require.Eventually(t, func() bool {
		_, err := env.checkinRepo.FindByAccountAndDate(account.ID, today())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, env.executor.callCount())
	assert.True(t, env.tracker.IsCompleted(account.ID, today()))
}

func TestTickSkipsOutsideWindow(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	env.seedAccount(t, func(a *model.Account) {
		a.WindowStart = "01:00"
		a.WindowEnd = "06:00"
	})
	scheduler := newTestScheduler(env)

	scheduler.Tick(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, env.executor.callCount())
}

func TestTickSkipsWhenAlreadyCheckedInToday(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	now := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)
	account := env.seedAccount(t, nil)
	require.NoError(t, env.accountRepo.UpdateLastCheckinDate(account.ID, util.DateString(now)))

	scheduler := newTestScheduler(env)
	scheduler.Tick(now)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, env.executor.callCount())
}

// 完成后的重复 tick 不会产生第二条记录或重复请求
func TestTickIdempotentAfterCompletion(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	account := env.seedAccount(t, nil)
	scheduler := newTestScheduler(env)

	now := time.Now().UTC()
	scheduler.Tick(now)

	require.Eventually(t, func() bool {
		return env.tracker.IsCompleted(account.ID, today())
	}, 2*time.Second, 10*time.Millisecond)

	scheduler.Tick(now.Add(2 * time.Minute))
	scheduler.Tick(now.Add(4 * time.Minute))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, env.executor.callCount())

	_, total, err := env.checkinRepo.ListByAccount(account.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestTickPrunesStaleTrackerState(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	scheduler := newTestScheduler(env)

	env.tracker.Complete(7, "2026-01-14")
	scheduler.Tick(time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC))

	assert.False(t, env.tracker.IsCompleted(7, "2026-01-14"))
}

func TestSchedulerStartStopIdempotent(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	scheduler := newTestScheduler(env)

	scheduler.Start()
	scheduler.Start()
	scheduler.Stop()
	scheduler.Stop()
}
