package model

import (
	"time"
)

// Account 托管的 LeafLow 账号
// TokenData 存储序列化后的凭据（{"cookies":{...}} JSON），由添加/编辑接口解析校验
type Account struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	TokenData           string    `gorm:"type:text;not null" json:"-"`
	Enabled             bool      `gorm:"default:true" json:"enabled"`
	WindowStart         string    `gorm:"type:varchar(5);default:'01:00'" json:"window_start"`
	WindowEnd           string    `gorm:"type:varchar(5);default:'06:00'" json:"window_end"`
	PollIntervalSeconds int       `gorm:"default:60" json:"poll_interval_seconds"`
	RetryBudget         int       `gorm:"default:2" json:"retry_budget"`
	LastCheckinDate     string    `gorm:"type:varchar(10)" json:"last_checkin_date"` // 2006-01-02，空串表示从未签到
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Credential 从 TokenData 解析出的签到凭据
type Credential struct {
	Cookies map[string]string `json:"cookies"`
}
