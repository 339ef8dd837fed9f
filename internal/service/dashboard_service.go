package service

import (
	"math"
	"time"

	"leaflow_checkin/internal/repository"
	"leaflow_checkin/internal/util"
)

// DashboardService 面板首页统计聚合
type DashboardService struct {
	AccountRepo *repository.AccountRepository
	CheckinRepo *repository.CheckinRepository

	loc *time.Location
}

func NewDashboardService(
	accountRepo *repository.AccountRepository,
	checkinRepo *repository.CheckinRepository,
	loc *time.Location,
) *DashboardService {
	return &DashboardService{
		AccountRepo: accountRepo,
		CheckinRepo: checkinRepo,
		loc:         loc,
	}
}

type DashboardStats struct {
	TotalAccounts      int64                     `json:"total_accounts"`
	EnabledAccounts    int64                     `json:"enabled_accounts"`
	TodayCheckins      []repository.TodayCheckin `json:"today_checkins"`
	TotalCheckins      int64                     `json:"total_checkins"`
	SuccessfulCheckins int64                     `json:"successful_checkins"`
	SuccessRate        float64                   `json:"success_rate"`
	RecentHistory      []repository.DailyStat    `json:"recent_history"`
}

func (s *DashboardService) GetStats() (*DashboardStats, error) {
	totalAccounts, err := s.AccountRepo.CountAll()
	if err != nil {
		return nil, err
	}
	enabledAccounts, err := s.AccountRepo.CountEnabled()
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.loc)
	today := util.DateString(now)

	todayCheckins, err := s.CheckinRepo.ListByDate(today)
	if err != nil {
		return nil, err
	}

	totalCheckins, err := s.CheckinRepo.CountAll()
	if err != nil {
		return nil, err
	}
	successfulCheckins, err := s.CheckinRepo.CountSuccessful()
	if err != nil {
		return nil, err
	}

	since := util.DateString(now.AddDate(0, 0, -7))
	recentHistory, err := s.CheckinRepo.RecentDailyStats(since)
	if err != nil {
		return nil, err
	}

	var successRate float64
	if totalCheckins > 0 {
		successRate = math.Round(float64(successfulCheckins)/float64(totalCheckins)*10000) / 100
	}

	return &DashboardStats{
		TotalAccounts:      totalAccounts,
		EnabledAccounts:    enabledAccounts,
		TodayCheckins:      todayCheckins,
		TotalCheckins:      totalCheckins,
		SuccessfulCheckins: successfulCheckins,
		SuccessRate:        successRate,
		RecentHistory:      recentHistory,
	}, nil
}
