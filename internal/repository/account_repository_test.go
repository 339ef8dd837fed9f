package repository

import (
	"testing"

	"leaflow_checkin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAccountNameUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	seedAccount(t, db, "alice")

	err := repo.Create(&model.Account{
		Name:      "alice",
		TokenData: `{"cookies":{"session":"other"}}`,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAccountListEnabled(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")
	require.NoError(t, repo.Updates(bob.ID, map[string]interface{}{"enabled": false}))

	accounts, err := repo.ListEnabled()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0].Name)

	total, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	enabled, err := repo.CountEnabled()
	require.NoError(t, err)
	assert.Equal(t, int64(1), enabled)
}

func TestAccountUpdateLastCheckinDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	account := seedAccount(t, db, "alice")

	require.NoError(t, repo.UpdateLastCheckinDate(account.ID, "2026-01-15"))

	stored, err := repo.FindByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", stored.LastCheckinDate)
}

func TestAccountDeleteRemovesHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	checkins := NewCheckinRepository(db)
	account := seedAccount(t, db, "alice")

	require.NoError(t, checkins.Create(&model.CheckinRecord{
		AccountID:   account.ID,
		Success:     true,
		CheckinDate: "2026-01-15",
	}))

	require.NoError(t, repo.Delete(account.ID))

	_, err := repo.FindByID(account.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, total, err := checkins.ListByAccount(account.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}
