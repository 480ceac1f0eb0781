package study

import (
	"sync"
	"time"
)

// Stopwatch は計測中の勉強セッションを表す。
// 永続化されない一時状態で、停止時に初めてStudyLogとして保存される。
type Stopwatch struct {
	Subject   string
	StartedAt time.Time
}

// Registry はユーザーごとの計測中ストップウォッチを保持する。
// プロセス内メモリのみで管理する（単一インスタンス前提）。
// UIは1秒周期のポーリングで経過時間を再計算するだけで、
// サーバ側でタイマーを回すことはない。
type Registry struct {
	mu      sync.Mutex
	running map[string]Stopwatch
}

// NewRegistry はRegistryを生成する。
func NewRegistry() *Registry {
	return &Registry{
		running: make(map[string]Stopwatch),
	}
}

// Start はユーザーのストップウォッチを開始する。
// すでに計測中の場合は(既存のセッション, false)を返す。
func (r *Registry) Start(username, subject string, now time.Time) (Stopwatch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.running[username]; ok {
		return current, false
	}

	sw := Stopwatch{Subject: subject, StartedAt: now}
	r.running[username] = sw
	return sw, true
}

// Current は計測中のストップウォッチを返す。計測していない場合はfalse。
func (r *Registry) Current(username string) (Stopwatch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sw, ok := r.running[username]
	return sw, ok
}

// Stop は計測を終了し、終了したストップウォッチを返す。
// 計測していない場合はfalse。
func (r *Registry) Stop(username string) (Stopwatch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sw, ok := r.running[username]
	if ok {
		delete(r.running, username)
	}
	return sw, ok
}

// Elapsed は開始時刻からの経過時間を返す純粋関数。
// 呼び出し側（プレゼンテーション層）が現在時刻を与える。
func Elapsed(now, start time.Time) time.Duration {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// MinutesFor は経過時間を記録用の分数に変換する。
// 床関数で分に切り捨てるが、60秒未満のセッションも最低1分とする。
// 勉強記録のduration_minutesが0になることはない。
func MinutesFor(elapsed time.Duration) int {
	m := int(elapsed / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}
