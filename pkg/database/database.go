package database

import (
	"fmt"
	"log"

	"leaflow_checkin/internal/config"
	"leaflow_checkin/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 建立数据库连接并迁移表结构
// MYSQL_DSN / database.type=mysql 时使用 MySQL，否则落到本地 SQLite 文件（原部署默认）
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.Type == "mysql" {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
		)
		dialector = mysql.Open(dsn)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// 将驱动的唯一键冲突翻译为 gorm.ErrDuplicatedKey，
		// 签到记录插入以此作为并发去重信号
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.Account{},
		&model.CheckinRecord{},
		&model.NotificationSetting{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// SeedNotificationSettings 初始化唯一的通知设置行（id=1），已存在则不动
func SeedNotificationSettings(db *gorm.DB, cfg *config.NotificationConfig) error {
	var count int64
	if err := db.Model(&model.NotificationSetting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	setting := &model.NotificationSetting{
		ID:               1,
		Enabled:          true,
		TelegramBotToken: cfg.TelegramBotToken,
		TelegramUserID:   cfg.TelegramUserID,
		WechatWebhookKey: cfg.WechatWebhookKey,
	}
	return db.Create(setting).Error
}
