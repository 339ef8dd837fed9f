package cache

import (
	"sync"
	"time"

	"leaflow_checkin/internal/model"
)

// AccountLister 启用账号的后备数据源（repository.AccountRepository 实现）
type AccountLister interface {
	ListEnabled() ([]model.Account, error)
}

// AccountCache 启用账号快照缓存
// 调度器每个 tick 的工作集从这里取，快照整体替换，读方不会看到半更新状态
type AccountCache struct {
	mu        sync.RWMutex
	store     AccountLister
	ttl       time.Duration
	accounts  []model.Account
	fetchedAt time.Time
	valid     bool

	now func() time.Time
}

func NewAccountCache(store AccountLister, ttl time.Duration) *AccountCache {
	return &AccountCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// GetEnabled 读穿：快照有效且未过期直接返回，否则回源并刷新
// 回源失败时返回错误，调用方（调度器）按空工作集处理，下个 tick 重试
func (c *AccountCache) GetEnabled() ([]model.Account, error) {
	c.mu.RLock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		snapshot := c.accounts
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	return c.RefreshFromStore()
}

// RefreshFromStore 无条件回源并整体替换快照
func (c *AccountCache) RefreshFromStore() ([]model.Account, error) {
	accounts, err := c.store.ListEnabled()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.accounts = accounts
	c.fetchedAt = c.now()
	c.valid = true
	c.mu.Unlock()

	return accounts, nil
}

// Invalidate 使快照立即失效，下次读取回源
func (c *AccountCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.accounts = nil
	c.mu.Unlock()
}
