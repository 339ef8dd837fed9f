package service

import (
	"testing"
	"time"

	"leaflow_checkin/internal/model"
	"leaflow_checkin/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func today() string {
	return util.DateString(time.Now().UTC())
}

func TestExecuteSuccess(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	account := env.seedAccount(t, nil)

	env.checkin.Execute(account.ID, 0)

	record, err := env.checkinRepo.FindByAccountAndDate(account.ID, today())
	require.NoError(t, err)
	assert.True(t, record.Success)
	assert.Equal(t, "签到成功", record.Message)
	assert.Equal(t, 0, record.RetryTimes)

	updated, err := env.accountRepo.FindByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, today(), updated.LastCheckinDate)

	assert.True(t, env.tracker.IsCompleted(account.ID, today()))
	assert.Equal(t, 1, env.executor.callCount())
}

func TestExecuteRetryThenSuccess(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		if call == 1 {
			return false, "网络抖动"
		}
		return true, "签到成功"
	})
	account := env.seedAccount(t, nil)

	env.checkin.Execute(account.ID, 0)

	record, err := env.checkinRepo.FindByAccountAndDate(account.ID, today())
	require.NoError(t, err)
	assert.True(t, record.Success)
	assert.Equal(t, 1, record.RetryTimes)
	assert.Equal(t, 2, env.executor.callCount())
}

// 重试耗尽也算当日终态：落失败记录并封板，不再继续探测
func TestExecuteRetryExhausted(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return false, "签到失败：HTTP 500"
	})
	account := env.seedAccount(t, nil)

	env.checkin.Execute(account.ID, 0)

	record, err := env.checkinRepo.FindByAccountAndDate(account.ID, today())
	require.NoError(t, err)
	assert.False(t, record.Success)
	assert.Equal(t, 2, record.RetryTimes)

	// 初次 + 2 次重试
	assert.Equal(t, 3, env.executor.callCount())
	assert.True(t, env.tracker.IsCompleted(account.ID, today()))

	updated, err := env.accountRepo.FindByID(account.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.LastCheckinDate)
}

func TestExecuteSkipsWhenAlreadyRecorded(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	account := env.seedAccount(t, nil)

	require.NoError(t, env.checkinRepo.Create(&model.CheckinRecord{
		AccountID:   account.ID,
		Success:     true,
		Message:     "签到成功",
		CheckinDate: today(),
	}))

	env.checkin.Execute(account.ID, 0)

	assert.Equal(t, 0, env.executor.callCount())
	assert.True(t, env.tracker.IsCompleted(account.ID, today()))
}

func TestExecuteSkipsDisabledAccount(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	account := env.seedAccount(t, nil)
	// default:true 列无法在 Create 时写入 false，建完再改
	require.NoError(t, env.accountRepo.Updates(account.ID, map[string]interface{}{"enabled": false}))

	env.checkin.Execute(account.ID, 0)

	assert.Equal(t, 0, env.executor.callCount())
	_, err := env.checkinRepo.FindByAccountAndDate(account.ID, today())
	assert.Error(t, err)
}

func TestExecuteMissingAccountIsNoop(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})

	env.checkin.Execute(4242, 0)

	assert.Equal(t, 0, env.executor.callCount())
}

// 库里凭据损坏属于终态失败，不触发站点请求也不消耗重试
func TestExecuteCorruptCredential(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return true, "签到成功"
	})
	account := env.seedAccount(t, func(a *model.Account) {
		a.TokenData = "not json"
	})

	env.checkin.Execute(account.ID, 0)

	assert.Equal(t, 0, env.executor.callCount())

	record, err := env.checkinRepo.FindByAccountAndDate(account.ID, today())
	require.NoError(t, err)
	assert.False(t, record.Success)
	assert.Contains(t, record.Message, "凭据解析失败")
	assert.True(t, env.tracker.IsCompleted(account.ID, today()))
}

// 执行中途并发触发方先行落库：插入冲突被当作幂等信号，不产生第二条记录
func TestExecuteConcurrentWinnerAlreadyRecorded(t *testing.T) {
	var (
		env       *testEnv
		accountID uint
	)
	env = newTestEnv(t, func(call int) (bool, string) {
		// 模拟另一个触发方在本次执行期间先完成
		require.NoError(t, env.checkinRepo.Create(&model.CheckinRecord{
			AccountID:   accountID,
			Success:     true,
			Message:     "签到成功",
			CheckinDate: today(),
		}))
		return true, "签到成功"
	})
	account := env.seedAccount(t, nil)
	accountID = account.ID

	env.checkin.Execute(account.ID, 0)

	_, total, err := env.checkinRepo.ListByAccount(account.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, env.tracker.IsCompleted(account.ID, today()))
}

func TestExecuteZeroRetryBudget(t *testing.T) {
	env := newTestEnv(t, func(call int) (bool, string) {
		return false, "失败"
	})
	account := env.seedAccount(t, nil)
	require.NoError(t, env.accountRepo.Updates(account.ID, map[string]interface{}{"retry_budget": 0}))

	env.checkin.Execute(account.ID, 0)

	assert.Equal(t, 1, env.executor.callCount())
	record, err := env.checkinRepo.FindByAccountAndDate(account.ID, today())
	require.NoError(t, err)
	assert.False(t, record.Success)
	assert.Equal(t, 0, record.RetryTimes)
}
