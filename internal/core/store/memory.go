package store

import (
	"context"
	"sync"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Memory 行程內存放，支援 TTL 與容量淘汰
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
	stats   stats
}

type entry struct {
	value      []byte
	expiresAt  time.Time
	lastAccess time.Time
}

type stats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemory 創建記憶體存放，並啟動過期清理協程
func NewMemory(cfg config.StoreConfig) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go m.startCleanup(cfg.CleanupInterval)
	}

	common.LogInfo("記憶體存放已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
	)
	return m
}

// Put 寫入，滿載時先清過期項目再淘汰最久未使用者
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxSize > 0 && len(m.entries) >= m.maxSize {
		m.cleanup()
		if len(m.entries) >= m.maxSize {
			m.evictLRU()
		}
		if len(m.entries) >= m.maxSize {
			return ErrFull
		}
	}

	now := m.now()
	e := entry{value: append([]byte(nil), value...), lastAccess: now}
	if m.ttl > 0 {
		e.expiresAt = now.Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// Get 讀取，過期項目視為不存在
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.stats.misses++
		return nil, ErrNotFound
	}
	now := m.now()
	if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
		delete(m.entries, key)
		m.stats.evictions++
		m.stats.misses++
		return nil, ErrNotFound
	}
	e.lastAccess = now
	m.entries[key] = e
	m.stats.hits++
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Len 目前項目數
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats 存取統計
func (m *Memory) Stats() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int64{
		"size":      int64(len(m.entries)),
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
	}
}

func (m *Memory) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期項目，呼叫端需持有鎖
func (m *Memory) cleanup() int {
	now := m.now()
	count := 0
	for key, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, key)
			count++
		}
	}
	m.stats.evictions += int64(count)
	if count > 0 {
		common.LogDebug("Cleaned up expired store entries",
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.entries)),
		)
	}
	return count
}

// evictLRU 淘汰最久未存取的項目，呼叫端需持有鎖
func (m *Memory) evictLRU() {
	var oldestKey string
	var oldest time.Time
	for key, e := range m.entries {
		if oldestKey == "" || e.lastAccess.Before(oldest) {
			oldestKey = key
			oldest = e.lastAccess
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
		m.stats.evictions++
	}
}

// Close 停止清理協程並清空
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.done) })
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	return nil
}
