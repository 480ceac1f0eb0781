// Package task はタスクの作成・一覧・トグル・削除のドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mikan/homeru/internal/model"
	"github.com/mikan/homeru/internal/repository"
	"github.com/mikan/homeru/internal/reward"
)

// RewardApplier はユーザーの報酬カウンタへの増分適用インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type RewardApplier interface {
	AddReward(ctx context.Context, username string, xp, coins int) error
}

// InputSanitizer は表示用文字列のサニタイズインターフェース。
type InputSanitizer interface {
	SanitizeDisplayString(input string) string
}

// MetricsRecorder はタスク関連メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordTaskCompleted()
}

// Service はタスク管理のサービス層。
type Service struct {
	taskRepo  repository.TaskRepository
	rewards   RewardApplier
	sanitizer InputSanitizer
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewService(
	taskRepo repository.TaskRepository,
	rewards RewardApplier,
	sanitizer InputSanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		taskRepo:  taskRepo,
		rewards:   rewards,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// ToggleResult はトグル結果をUIへ一度だけ伝えるためのイベント。
// 完了時はCelebrateがtrueになり、UIは紙吹雪などを一度表示して破棄する。
type ToggleResult struct {
	TaskID    int64              `json:"task_id"`
	Status    model.TaskStatus   `json:"status"`
	Grant     *model.RewardGrant `json:"grant,omitempty"`
	Celebrate bool               `json:"celebrate"`
}

// Create は新しいタスクを未完了状態で作成する。報酬は付与しない。
// 過去の期限も拒否しない（表示上「期限切れ」となるだけ）。
func (s *Service) Create(ctx context.Context, username, name string, due time.Time, priority model.TaskPriority) (*model.Task, error) {
	name = strings.TrimSpace(name)
	if s.sanitizer != nil {
		name = s.sanitizer.SanitizeDisplayString(name)
	}
	if name == "" {
		return nil, model.NewValidationError("タスク名を入力してください。")
	}
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, model.NewValidationError("優先度は high / medium / low のいずれかを指定してください。")
	}

	task := &model.Task{
		Username:  username,
		Name:      name,
		Status:    model.TaskStatusPending,
		DueDate:   due,
		Priority:  priority,
		CreatedAt: time.Now(),
	}

	id, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}
	task.ID = id

	return task, nil
}

// List はユーザーのタスクを表示順（状態・優先度・期限・作成順）で返す。
func (s *Service) List(ctx context.Context, username string) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	SortTasks(tasks)
	return tasks, nil
}

// Toggle はタスクの完了状態を切り替える。
// 未完了→完了で固定報酬（+10XP/+10コイン）を付与し、
// 完了→未完了で同じ量を巻き戻す（0でクランプ）。
// すでに目的の状態である場合は何もしない。
func (s *Service) Toggle(ctx context.Context, username string, taskID int64, done bool) (*ToggleResult, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil || task.Username != username {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	newStatus := model.TaskStatusPending
	if done {
		newStatus = model.TaskStatusDone
	}

	if task.Status == newStatus {
		return &ToggleResult{TaskID: taskID, Status: newStatus}, nil
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, newStatus); err != nil {
		return nil, fmt.Errorf("タスク状態の更新に失敗しました: %w", err)
	}

	result := &ToggleResult{TaskID: taskID, Status: newStatus}

	if done {
		grant := &model.RewardGrant{XP: reward.TaskCompletionXP, Coins: reward.TaskCompletionCoins}
		if err := s.rewards.AddReward(ctx, username, grant.XP, grant.Coins); err != nil {
			return nil, fmt.Errorf("報酬の付与に失敗しました: %w", err)
		}
		result.Grant = grant
		result.Celebrate = true

		if s.metrics != nil {
			s.metrics.RecordTaskCompleted()
		}
		slog.Info("task completed",
			slog.String("username", username),
			slog.Int64("task_id", taskID),
		)
	} else {
		// 完了の取り消し。付与済みの固定報酬を巻き戻す。
		grant := &model.RewardGrant{XP: -reward.TaskCompletionXP, Coins: -reward.TaskCompletionCoins}
		if err := s.rewards.AddReward(ctx, username, grant.XP, grant.Coins); err != nil {
			return nil, fmt.Errorf("報酬の巻き戻しに失敗しました: %w", err)
		}
		result.Grant = grant
	}

	return result, nil
}

// Delete はタスクを物理削除する。存在しないタスクの削除はno-opで成功する。
func (s *Service) Delete(ctx context.Context, username string, taskID int64) error {
	if err := s.taskRepo.Delete(ctx, username, taskID); err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}
	return nil
}

// CalendarLinkFor は所有権を確認したうえでGoogleカレンダーのリンクを返す。
func (s *Service) CalendarLinkFor(ctx context.Context, username string, taskID int64) (string, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil || task.Username != username {
		return "", model.NewTaskNotFoundError(taskID)
	}
	return CalendarLink(*task), nil
}
