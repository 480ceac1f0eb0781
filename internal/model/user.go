// Package model はドメインモデルを定義する。
package model

import "time"

// JST は日本標準時。勉強日や週間ランキングの「今日」の判定はすべてJST基準で行う。
var JST = time.FixedZone("JST", 9*60*60)

// User はサービス利用ユーザーを表す。
// XPとCoinsは0未満にならない（巻き戻しは0でクランプされる）。
type User struct {
	Username       string // 不変のログインID
	PasswordDigest string // bcryptダイジェスト
	Nickname       string
	XP             int
	Coins          int

	// コスメティック設定。Current系は必ず対応するUnlocked系の
	// カンマ区切り集合のメンバーでなければならない。
	CurrentFont        string
	UnlockedFonts      string
	CurrentWallpaper   string
	UnlockedWallpapers string
	CurrentTitle       string
	UnlockedTitles     string

	CreatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RewardGrant はXPとコインの対になった増分を表す。
// タスク完了や勉強セッション終了の結果として発行され、
// 取り消し時は負の値で同じ型を使う。
type RewardGrant struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}
