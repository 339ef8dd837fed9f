package repository

import (
	"path/filepath"
	"testing"

	"leaflow_checkin/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Account{},
		&model.CheckinRecord{},
		&model.NotificationSetting{},
	))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, name string) *model.Account {
	t.Helper()

	account := &model.Account{
		Name:                name,
		TokenData:           `{"cookies":{"session":"abc"}}`,
		Enabled:             true,
		WindowStart:         "01:00",
		WindowEnd:           "06:00",
		PollIntervalSeconds: 60,
		RetryBudget:         2,
	}
	require.NoError(t, NewAccountRepository(db).Create(account))
	return account
}
