// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/mikan/homeru/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	// ユーザー名が重複している場合はmodel.APIError（USER_CONFLICT）を返す。
	Create(ctx context.Context, user *model.User) error

	// AddReward はXPとコインに増分を加算する。負の増分も受け付け、
	// 結果が0未満になる場合は0でクランプされる。1文のUPDATEで適用する。
	AddReward(ctx context.Context, username string, xp, coins int) error

	// ApplyPurchase はコインをprice分減算し、該当種別の解放済み集合を
	// unlockedに置き換える。コイン残高がprice未満の場合は適用せずエラーを返す。
	ApplyPurchase(ctx context.Context, username string, kind model.CosmeticKind, unlocked string, price int) error

	// UpdateCurrentCosmetic は該当種別の「現在の選択」を更新する。
	// itemが解放済みかどうかの検証は呼び出し側の責務。
	UpdateCurrentCosmetic(ctx context.Context, username string, kind model.CosmeticKind, item string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しない場合も成功扱い。
	DeleteByID(ctx context.Context, id string) error
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Task, error)

	// ListByUsername はユーザーの全タスクを返す。並び替えはサービス層で行う。
	ListByUsername(ctx context.Context, username string) ([]model.Task, error)

	// Create はタスクを作成し、採番されたIDを返す。
	Create(ctx context.Context, task *model.Task) (int64, error)

	// UpdateStatus はタスクの状態のみを更新する。名前・期限・優先度は変更しない。
	UpdateStatus(ctx context.Context, id int64, status model.TaskStatus) error

	// Delete は指定タスクを物理削除する。存在しない場合も成功扱い（no-op）。
	Delete(ctx context.Context, username string, id int64) error
}

// StudyLogRepository は勉強記録の永続化インターフェース。
// 報酬付与・巻き戻しを記録の作成・削除と同一トランザクションで行う。
type StudyLogRepository interface {
	// ListByUsername はユーザーの勉強記録を新しい順に返す。
	ListByUsername(ctx context.Context, username string) ([]model.StudyLog, error)

	// InsertWithReward は勉強記録を作成し、同一トランザクションで
	// ユーザーのXPとコインにduration_minutes分を加算する。
	InsertWithReward(ctx context.Context, log *model.StudyLog) (int64, error)

	// DeleteWithReversal は勉強記録を削除し、同一トランザクションで
	// 保存されていたduration_minutes分の報酬を巻き戻す（0でクランプ）。
	// 巻き戻した分数を返す。記録が存在しない場合は(0, nil)を返すno-op。
	// 巻き戻し量は呼び出し側から渡された値ではなく、必ず行の再読込で決める。
	DeleteWithReversal(ctx context.Context, username string, id int64) (int, error)

	// SumDurationsSince はsince以降（境界含む）の勉強分数をユーザーごとに合計し、
	// 合計降順・ユーザー名昇順で返す。週間ランキングで使用する。
	SumDurationsSince(ctx context.Context, since time.Time) ([]model.RankingEntry, error)
}
