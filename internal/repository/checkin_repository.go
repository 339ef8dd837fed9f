package repository

import (
	"time"

	"leaflow_checkin/internal/model"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	DB *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{DB: db}
}

// Create 插入终态签到记录
// (account_id, checkin_date) 唯一索引冲突时返回 gorm.ErrDuplicatedKey，
// 调用方以此识别并发下已有同日记录
func (r *CheckinRepository) Create(record *model.CheckinRecord) error {
	return r.DB.Create(record).Error
}

// FindByAccountAndDate 查询某账号某日的签到记录，无记录返回 gorm.ErrRecordNotFound
func (r *CheckinRepository) FindByAccountAndDate(accountID uint, date string) (*model.CheckinRecord, error) {
	var record model.CheckinRecord
	err := r.DB.Where("account_id = ? AND checkin_date = ?", accountID, date).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByAccount 按时间倒序分页列出某账号的历史
func (r *CheckinRepository) ListByAccount(accountID uint, limit, offset int) ([]model.CheckinRecord, int64, error) {
	var records []model.CheckinRecord
	var total int64

	q := r.DB.Model(&model.CheckinRecord{}).Where("account_id = ?", accountID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error
	return records, total, err
}

// TodayCheckin 面板首页展示用：今日记录携带账号名
type TodayCheckin struct {
	Name      string    `json:"name"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *CheckinRepository) ListByDate(date string) ([]TodayCheckin, error) {
	var rows []TodayCheckin
	err := r.DB.Table("checkin_history").
		Select("accounts.name, checkin_history.success, checkin_history.message, checkin_history.created_at").
		Joins("JOIN accounts ON accounts.id = checkin_history.account_id").
		Where("checkin_history.checkin_date = ?", date).
		Order("checkin_history.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *CheckinRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&model.CheckinRecord{}).Count(&count).Error
	return count, err
}

func (r *CheckinRepository) CountSuccessful() (int64, error) {
	var count int64
	err := r.DB.Model(&model.CheckinRecord{}).Where("success = ?", true).Count(&count).Error
	return count, err
}

// DailyStat 近 N 天的按日聚合
type DailyStat struct {
	CheckinDate string `json:"checkin_date"`
	Total       int64  `json:"total"`
	Successful  int64  `json:"successful"`
}

func (r *CheckinRepository) RecentDailyStats(since string) ([]DailyStat, error) {
	var stats []DailyStat
	err := r.DB.Model(&model.CheckinRecord{}).
		Select("checkin_date, COUNT(*) as total, SUM(CASE WHEN success THEN 1 ELSE 0 END) as successful").
		Where("checkin_date >= ?", since).
		Group("checkin_date").
		Order("checkin_date DESC").
		Scan(&stats).Error
	return stats, err
}
