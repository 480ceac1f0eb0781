// Package reward はXP・コイン・レベルに関する純粋な計算を提供する。
// 副作用を持たず、永続化はrepository側の責務とする。
package reward

// XPPerLevel はレベルアップに必要なXP量。
const XPPerLevel = 50

// タスク完了時の固定報酬。優先度や所要時間には依存しない。
const (
	TaskCompletionXP    = 10
	TaskCompletionCoins = 10
)

// Level は累計XPからレベルを算出する。レベルは1始まり。
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// ProgressRatio は次のレベルまでの進捗を[0,1)で返す。
func ProgressRatio(xp int) float64 {
	if xp < 0 {
		xp = 0
	}
	return float64(xp%XPPerLevel) / float64(XPPerLevel)
}

// ClampSub はvalueからdeltaを引き、0未満にならないようにクランプする。
// 勉強記録の削除やタスクの完了取り消しで報酬を巻き戻すときに使う。
func ClampSub(value, delta int) int {
	v := value - delta
	if v < 0 {
		return 0
	}
	return v
}
