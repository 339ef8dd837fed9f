package cache

import (
	"strings"
	"sync"
	"time"
)

// 进程内带 TTL 的读穿缓存，调度器和通知设置等低频变更数据的读路径都走这里。
// 约定：所有写路径（账号/通知设置的增删改）必须在返回前失效对应条目，
// 过期或被失效的条目绝不返回。

type entry struct {
	value     interface{}
	fetchedAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry

	// 可注入时钟，测试用
	now func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get 返回未过期的缓存值；过期条目当作 miss 并顺手删除
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		c.mu.Lock()
		// 重新检查，期间可能已被 Set 刷新
		if cur, ok := c.entries[key]; ok && cur.fetchedAt == e.fetchedAt {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// InvalidatePrefix 删除所有 key 含指定子串的条目
func (c *Cache) InvalidatePrefix(substr string) {
	c.mu.Lock()
	for k := range c.entries {
		if strings.Contains(k, substr) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
