package store

import (
	"context"
	"errors"
	"fmt"

	"recipe-finder/internal/infrastructure/config"
)

// ErrNotFound 鍵不存在或已過期
var ErrNotFound = errors.New("store: not found")

// ErrFull 容量已滿且無法淘汰
var ErrFull = errors.New("store: full")

// Store 任務結果存放介面，值為序列化後的 JSON
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Ping(ctx context.Context) error
	Close() error
}

// New 依設定建立存放後端
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
