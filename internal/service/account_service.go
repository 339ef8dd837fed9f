package service

import (
	"errors"

	"leaflow_checkin/internal/cache"
	"leaflow_checkin/internal/model"
	"leaflow_checkin/internal/repository"
	"leaflow_checkin/internal/util"

	"gorm.io/gorm"
)

const minPollIntervalSeconds = 30

// AccountService 账号 CRUD
// 所有写路径在返回前失效账号缓存，保证调度器下个 tick 看到新状态
type AccountService struct {
	Repo        *repository.AccountRepository
	CheckinRepo *repository.CheckinRepository
	Accounts    *cache.AccountCache
	Cache       *cache.Cache
}

func NewAccountService(
	repo *repository.AccountRepository,
	checkinRepo *repository.CheckinRepository,
	accounts *cache.AccountCache,
	c *cache.Cache,
) *AccountService {
	return &AccountService{
		Repo:        repo,
		CheckinRepo: checkinRepo,
		Accounts:    accounts,
		Cache:       c,
	}
}

// CreateAccountInput 新建账号参数，CookieInput 为用户贴入的原始凭据文本
type CreateAccountInput struct {
	Name         string
	CookieInput  string
	WindowStart  string
	WindowEnd    string
	PollInterval int
	RetryBudget  int
}

func (s *AccountService) Create(input *CreateAccountInput) (*model.Account, error) {
	if err := validateSchedule(input.WindowStart, input.WindowEnd, input.PollInterval, input.RetryBudget); err != nil {
		return nil, err
	}

	cred, err := util.ParseCookieString(input.CookieInput)
	if err != nil {
		return nil, err
	}
	tokenData, err := util.SerializeCredential(cred)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.FindByName(input.Name); err == nil {
		return nil, util.ErrNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account := &model.Account{
		Name:                input.Name,
		TokenData:           tokenData,
		Enabled:             true,
		WindowStart:         input.WindowStart,
		WindowEnd:           input.WindowEnd,
		PollIntervalSeconds: input.PollInterval,
		RetryBudget:         input.RetryBudget,
	}
	if err := s.Repo.Create(account); err != nil {
		return nil, err
	}

	s.invalidate()
	return account, nil
}

// UpdateAccountInput 部分更新，nil 字段不动
type UpdateAccountInput struct {
	Enabled      *bool
	CookieInput  *string
	WindowStart  *string
	WindowEnd    *string
	PollInterval *int
	RetryBudget  *int
}

func (s *AccountService) Update(id uint, input *UpdateAccountInput) error {
	account, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAccountNotFound
		}
		return err
	}

	updates := make(map[string]interface{})

	if input.Enabled != nil {
		updates["enabled"] = *input.Enabled
	}
	if input.CookieInput != nil {
		cred, err := util.ParseCookieString(*input.CookieInput)
		if err != nil {
			return err
		}
		tokenData, err := util.SerializeCredential(cred)
		if err != nil {
			return err
		}
		updates["token_data"] = tokenData
	}

	windowStart := account.WindowStart
	windowEnd := account.WindowEnd
	if input.WindowStart != nil {
		windowStart = *input.WindowStart
		updates["window_start"] = windowStart
	}
	if input.WindowEnd != nil {
		windowEnd = *input.WindowEnd
		updates["window_end"] = windowEnd
	}
	pollInterval := account.PollIntervalSeconds
	if input.PollInterval != nil {
		pollInterval = *input.PollInterval
		updates["poll_interval_seconds"] = pollInterval
	}
	retryBudget := account.RetryBudget
	if input.RetryBudget != nil {
		retryBudget = *input.RetryBudget
		updates["retry_budget"] = retryBudget
	}

	if err := validateSchedule(windowStart, windowEnd, pollInterval, retryBudget); err != nil {
		return err
	}

	if len(updates) == 0 {
		return nil
	}
	if err := s.Repo.Updates(id, updates); err != nil {
		return err
	}

	s.invalidate()
	return nil
}

func (s *AccountService) Delete(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAccountNotFound
		}
		return err
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}

	s.invalidate()
	return nil
}

func (s *AccountService) List() ([]model.Account, error) {
	return s.Repo.ListAll()
}

func (s *AccountService) History(id uint, page, limit int) ([]model.CheckinRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CheckinRepo.ListByAccount(id, limit, (page-1)*limit)
}

// invalidate 写后统一失效：账号快照 + 所有由账号派生的通用缓存条目
func (s *AccountService) invalidate() {
	s.Accounts.Invalidate()
	s.Cache.InvalidatePrefix("account")
}

func validateSchedule(windowStart, windowEnd string, pollInterval, retryBudget int) error {
	if err := util.ValidateWindow(windowStart, windowEnd); err != nil {
		return err
	}
	if pollInterval < minPollIntervalSeconds {
		return util.ErrPollIntervalTooLow
	}
	if retryBudget < 0 {
		return util.ErrNegativeRetryBudget
	}
	return nil
}
