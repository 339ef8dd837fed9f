package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskTrackerShouldProbe(t *testing.T) {
	tracker := NewTaskTracker()
	now := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)
	poll := time.Minute

	assert.True(t, tracker.ShouldProbe(1, "2026-01-15", now, poll))

	// 间隔未到
	assert.False(t, tracker.ShouldProbe(1, "2026-01-15", now.Add(30*time.Second), poll))

	// 间隔已满
	assert.True(t, tracker.ShouldProbe(1, "2026-01-15", now.Add(time.Minute), poll))

	// 账号之间互不影响
	assert.True(t, tracker.ShouldProbe(2, "2026-01-15", now, poll))
}

func TestTaskTrackerComplete(t *testing.T) {
	tracker := NewTaskTracker()
	now := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)

	tracker.Complete(1, "2026-01-15")
	assert.True(t, tracker.IsCompleted(1, "2026-01-15"))
	assert.False(t, tracker.ShouldProbe(1, "2026-01-15", now.Add(time.Hour), time.Minute))

	// 完成状态只对当日生效
	assert.False(t, tracker.IsCompleted(1, "2026-01-16"))
	assert.True(t, tracker.ShouldProbe(1, "2026-01-16", now.AddDate(0, 0, 1), time.Minute))
}

func TestTaskTrackerPrune(t *testing.T) {
	tracker := NewTaskTracker()
	now := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)

	tracker.ShouldProbe(1, "2026-01-14", now, time.Minute)
	tracker.ShouldProbe(1, "2026-01-15", now, time.Minute)
	tracker.Complete(2, "2026-01-14")
	assert.Equal(t, 3, tracker.Size())

	tracker.Prune("2026-01-15")

	assert.Equal(t, 1, tracker.Size())
	// 跨日状态被丢弃，次日重新放行
	assert.True(t, tracker.ShouldProbe(1, "2026-01-14", now, time.Minute))
}
