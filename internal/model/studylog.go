// Package model はドメインモデルを定義する。
package model

import "time"

// StudyLog は1回の勉強セッションの記録を表す。
// 作成後は削除以外の変更を持たない。作成時にduration_minutes分の
// 報酬（XP・コイン）が必ず対で付与され、削除時に同じ量が巻き戻される。
type StudyLog struct {
	ID              int64
	Username        string
	Subject         string
	DurationMinutes int       // 1以上。60秒未満のセッションも1分に切り上げる。
	StudyDate       time.Time // JSTでの終了日（日付のみ意味を持つ）
	CreatedAt       time.Time
}

// RankingEntry は週間ランキングの1行を表す。
type RankingEntry struct {
	Username     string `json:"username"`
	Nickname     string `json:"nickname"`
	TotalMinutes int    `json:"total_minutes"`
}
