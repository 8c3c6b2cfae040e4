package jobs

import (
	"time"

	"recipe-finder/internal/core/recipe"
)

// Status 任務狀態
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Finished 任務是否已結束
func (s Status) Finished() bool {
	return s == StatusDone || s == StatusFailed
}

// Job 存放於 store 的任務紀錄
type Job struct {
	ID        string                 `json:"id"`
	Status    Status                 `json:"status"`
	Query     string                 `json:"query"`
	Recipe    *recipe.EnrichedRecipe `json:"recipe,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
	Error     string                 `json:"error,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// QueueStatus 隊列狀態
type QueueStatus struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}
