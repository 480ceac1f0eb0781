package task

import (
	"sort"
	"time"

	"github.com/mikan/homeru/internal/model"
)

// Less はタスク一覧の全順序を定義する。キーの優先順位は
// (1) 状態: 未完了 < 完了
// (2) 優先度: 高 < 中 < 低
// (3) 期限: 昇順
// (4) 作成順（作成時刻、同時刻はID）
// この順序はユーザーに見える一覧の並びそのものなので変更しないこと。
func Less(a, b model.Task) bool {
	if a.Status.Rank() != b.Status.Rank() {
		return a.Status.Rank() < b.Status.Rank()
	}
	if a.Priority.Rank() != b.Priority.Rank() {
		return a.Priority.Rank() < b.Priority.Rank()
	}
	ad, bd := dateOnly(a.DueDate), dateOnly(b.DueDate)
	if !ad.Equal(bd) {
		return ad.Before(bd)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortTasks はタスクをLessの定義する順序で並び替える。
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// dateOnly は期限の時刻成分を落とし、日付だけで比較できるようにする。
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
