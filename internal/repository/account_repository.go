package repository

import (
	"leaflow_checkin/internal/model"

	"gorm.io/gorm"
)

type AccountRepository struct {
	DB *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

func (r *AccountRepository) Create(account *model.Account) error {
	return r.DB.Create(account).Error
}

func (r *AccountRepository) FindByID(id uint) (*model.Account, error) {
	var account model.Account
	err := r.DB.First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByName(name string) (*model.Account, error) {
	var account model.Account
	err := r.DB.Where("name = ?", name).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) ListAll() ([]model.Account, error) {
	var accounts []model.Account
	err := r.DB.Order("id").Find(&accounts).Error
	return accounts, err
}

// ListEnabled 调度器的工作集查询
func (r *AccountRepository) ListEnabled() ([]model.Account, error) {
	var accounts []model.Account
	err := r.DB.Where("enabled = ?", true).Order("id").Find(&accounts).Error
	return accounts, err
}

// Updates 按字段更新，updates 为列名到新值的映射
func (r *AccountRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.DB.Model(&model.Account{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateLastCheckinDate 签到成功后由调度器回写
func (r *AccountRepository) UpdateLastCheckinDate(id uint, date string) error {
	return r.DB.Model(&model.Account{}).Where("id = ?", id).
		Update("last_checkin_date", date).Error
}

// Delete 删除账号并级联清理签到历史
func (r *AccountRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&model.CheckinRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Account{}, id).Error
	})
}

func (r *AccountRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Account{}).Count(&count).Error
	return count, err
}

func (r *AccountRepository) CountEnabled() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Account{}).Where("enabled = ?", true).Count(&count).Error
	return count, err
}
