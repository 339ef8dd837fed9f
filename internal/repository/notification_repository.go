package repository

import (
	"leaflow_checkin/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// Get 返回全局唯一的设置行（id=1）
func (r *NotificationRepository) Get() (*model.NotificationSetting, error) {
	var setting model.NotificationSetting
	err := r.DB.First(&setting, 1).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *NotificationRepository) Update(setting *model.NotificationSetting) error {
	setting.ID = 1
	return r.DB.Save(setting).Error
}
