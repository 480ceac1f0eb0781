// Package model はドメインモデルを定義する。
package model

import "time"

// Task はユーザーのタスクを表す。
type Task struct {
	ID        int64
	Username  string
	Name      string
	Status    TaskStatus
	DueDate   time.Time // 日付のみ意味を持つ。過去日付も許容する（表示上「期限切れ」になるだけ）。
	Priority  TaskPriority
	CreatedAt time.Time
}

// TaskStatus はタスクの状態を表す。未完了と完了の2状態のみで、
// 遷移はユーザー操作によるトグルだけが存在する。
type TaskStatus string

const (
	// TaskStatusPending は未完了状態。
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusDone は完了状態。
	TaskStatusDone TaskStatus = "done"
)

// Rank は一覧の並び順で使う序数を返す。未完了が完了より前に来る。
func (s TaskStatus) Rank() int {
	if s == TaskStatusDone {
		return 1
	}
	return 0
}

// TaskPriority はタスクの優先度を表す。
type TaskPriority string

const (
	// PriorityHigh は高優先度。
	PriorityHigh TaskPriority = "high"
	// PriorityMedium は中優先度（デフォルト）。
	PriorityMedium TaskPriority = "medium"
	// PriorityLow は低優先度。
	PriorityLow TaskPriority = "low"
)

// Rank は一覧の並び順で使う序数を返す。高 < 中 < 低。
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// IsValid は既知の優先度かどうかを返す。
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// IsValid は既知の状態かどうかを返す。
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusDone
}
