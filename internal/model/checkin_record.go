package model

import (
	"time"
)

// CheckinRecord 签到历史，仅追加
// (account_id, checkin_date) 唯一索引保证每天至多一条终态记录，
// 并发触发时以插入冲突作为幂等信号
type CheckinRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID   uint      `gorm:"not null;uniqueIndex:idx_account_checkin_date,priority:1" json:"account_id"`
	Success     bool      `gorm:"not null" json:"success"`
	Message     string    `gorm:"type:text" json:"message"`
	CheckinDate string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_account_checkin_date,priority:2" json:"checkin_date"`
	RetryTimes  int       `gorm:"default:0" json:"retry_times"` // 实际消耗的重试次数，首次即成功为 0
	CreatedAt   time.Time `json:"created_at"`
}

func (CheckinRecord) TableName() string {
	return "checkin_history"
}
