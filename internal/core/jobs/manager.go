package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/store"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 隊列已關閉
var ErrClosed = errors.New("job queue is closed")

// Runner 執行食譜流程
type Runner interface {
	Find(ctx context.Context, query string) (*recipe.EnrichedRecipe, error)
}

// Manager 以固定數量的 worker 執行排隊中的任務，狀態寫入 store
type Manager struct {
	store   store.Store
	runner  Runner
	queue   chan string
	workers int
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	processed int64
	failed    int64
	now       func() time.Time
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg config.QueueConfig, st store.Store, runner Runner) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.MaxSize
	if size <= 0 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		store:   st,
		runner:  runner,
		queue:   make(chan string, size),
		workers: workers,
		timeout: cfg.JobTimeout,
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
	}

	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
	common.LogInfo("任務隊列已啟動",
		zap.Int("workers", workers),
		zap.Int("max_queue_size", size),
		zap.Duration("job_timeout", m.timeout),
	)
	return m
}

// Enqueue 建立任務並加入隊列；隊列已滿時回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, query string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	now := m.now()
	job := &Job{
		ID:        common.GenerateUUID(),
		Status:    StatusQueued,
		Query:     query,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.save(ctx, job); err != nil {
		return nil, err
	}

	select {
	case m.queue <- job.ID:
		common.LogInfo("任務已加入隊列",
			zap.String("job_id", job.ID),
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", cap(m.queue)),
		)
		return job, nil
	default:
		job.Status = StatusFailed
		job.Error = "queue is full"
		job.UpdatedAt = m.now()
		if err := m.save(ctx, job); err != nil {
			common.LogWarn("無法更新任務狀態", zap.String("job_id", job.ID), zap.Error(err))
		}
		return nil, common.ErrQueueFull
	}
}

// Get 讀取任務紀錄
func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	data, err := m.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, common.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var job Job
	if err := common.ParseJSONBytes(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// Status 獲取隊列狀態
func (m *Manager) Status() *QueueStatus {
	return &QueueStatus{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		MaxQueueSize:   cap(m.queue),
		Workers:        m.workers,
	}
}

// Shutdown 停止接受新任務並等待 worker 處理完隊列；ctx 到期時中斷執行中的任務
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		return nil
	case <-ctx.Done():
		m.cancel()
		<-done
		return ctx.Err()
	}
}

func (m *Manager) worker(n int) {
	defer m.wg.Done()
	for id := range m.queue {
		m.process(id)
	}
	common.LogDebug("worker 結束", zap.Int("worker", n))
}

func (m *Manager) process(id string) {
	ctx := m.ctx
	job, err := m.Get(ctx, id)
	if err != nil {
		common.LogError("無法讀取任務", zap.String("job_id", id), zap.Error(err))
		return
	}

	job.Status = StatusRunning
	job.UpdatedAt = m.now()
	if err := m.save(ctx, job); err != nil {
		common.LogWarn("無法更新任務狀態", zap.String("job_id", id), zap.Error(err))
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	result, err := m.runner.Find(ctx, job.Query)
	atomic.AddInt64(&m.processed, 1)
	job.UpdatedAt = m.now()
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		job.Status = StatusFailed
		job.Reason = string(recipe.ReasonOf(err))
		job.Error = err.Error()
	} else {
		job.Status = StatusDone
		job.Recipe = result
	}

	// 寫回結果時不受單一任務逾時影響
	if err := m.save(m.ctx, job); err != nil {
		common.LogError("無法寫入任務結果", zap.String("job_id", id), zap.Error(err))
		return
	}
	common.LogInfo("任務處理完成",
		zap.String("job_id", id),
		zap.String("status", string(job.Status)),
		zap.String("reason", job.Reason),
	)
}

func (m *Manager) save(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	return m.store.Put(ctx, job.ID, data)
}
