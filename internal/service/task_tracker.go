package service

import (
	"sync"
	"time"
)

type taskKey struct {
	accountID uint
	date      string // 2006-01-02，固定时区下的日历日
}

// taskState 某账号某日的探测状态，仅存在于内存，进程重启即丢弃
type taskState struct {
	lastProbe time.Time
	probed    bool
	completed bool
}

// TaskTracker 调度器持有的 (账号, 日期) 状态机
// tick 循环和各执行单元并发读写，整个 map 由互斥锁保护
type TaskTracker struct {
	mu    sync.Mutex
	tasks map[taskKey]*taskState
}

func NewTaskTracker() *TaskTracker {
	return &TaskTracker{tasks: make(map[taskKey]*taskState)}
}

// ShouldProbe 探测闸门：按需懒建状态；已完成返回 false；
// 从未探测过或距上次探测已满 pollInterval 时，记录本次探测时间并放行
func (t *TaskTracker) ShouldProbe(accountID uint, date string, now time.Time, pollInterval time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := taskKey{accountID: accountID, date: date}
	state, ok := t.tasks[key]
	if !ok {
		state = &taskState{}
		t.tasks[key] = state
	}

	if state.completed {
		return false
	}
	if state.probed && now.Sub(state.lastProbe) < pollInterval {
		return false
	}

	state.lastProbe = now
	state.probed = true
	return true
}

// Complete 标记当日终态（成功或重试耗尽都算完成，当天不再探测）
func (t *TaskTracker) Complete(accountID uint, date string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := taskKey{accountID: accountID, date: date}
	state, ok := t.tasks[key]
	if !ok {
		state = &taskState{}
		t.tasks[key] = state
	}
	state.completed = true
}

func (t *TaskTracker) IsCompleted(accountID uint, date string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.tasks[taskKey{accountID: accountID, date: date}]
	return ok && state.completed
}

// Prune 丢弃非今日的状态，限制内存并顺带完成跨日重置
func (t *TaskTracker) Prune(today string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.tasks {
		if key.date != today {
			delete(t.tasks, key)
		}
	}
}

func (t *TaskTracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tasks)
}
