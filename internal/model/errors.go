// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, ledger, shop, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUserConflict        = "USER_CONFLICT"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeLoginFailed         = "LOGIN_FAILED"
	ErrCodeTaskNotFound        = "TASK_NOT_FOUND"
	ErrCodeLogNotFound         = "LOG_NOT_FOUND"
	ErrCodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	ErrCodeUnknownCosmetic     = "UNKNOWN_COSMETIC"
	ErrCodeCosmeticNotOwned    = "COSMETIC_NOT_OWNED"
	ErrCodeStopwatchRunning    = "STOPWATCH_ALREADY_RUNNING"
	ErrCodeStopwatchNotRunning = "STOPWATCH_NOT_RUNNING"
)

// NewValidationError は必須項目の未入力など入力検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を確認して、もう一度お試しください。",
	}
}

// NewUserConflictError はユーザー名の重複エラーを生成する。
func NewUserConflictError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUserConflict,
		Message:  fmt.Sprintf("このユーザー名は既に使われています: %s", username),
		Category: "auth",
		Action:   "別のユーザー名で登録してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewLoginFailedError はログイン失敗エラーを生成する。
// ユーザー名の存在有無は漏らさない。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginFailed,
		Message:  "ユーザー名またはパスワードが違います。",
		Category: "auth",
		Action:   "ユーザー名とパスワードを確認してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID int64) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %d", taskID),
		Category: "ledger",
		Action:   "タスク一覧を再読み込みしてください。",
	}
}

// NewLogNotFoundError は勉強記録未検出エラーを生成する。
func NewLogNotFoundError(logID int64) *APIError {
	return &APIError{
		Code:     ErrCodeLogNotFound,
		Message:  fmt.Sprintf("指定された勉強記録が見つかりません: %d", logID),
		Category: "ledger",
		Action:   "勉強記録の一覧を再読み込みしてください。",
	}
}

// NewInsufficientFundsError はコイン不足エラーを生成する。
func NewInsufficientFundsError(price, coins int) *APIError {
	return &APIError{
		Code:     ErrCodeInsufficientFunds,
		Message:  fmt.Sprintf("コインが足りません（必要: %d、所持: %d）。", price, coins),
		Category: "shop",
		Action:   "勉強やタスク完了でコインを貯めてから購入してください。",
	}
}

// NewUnknownCosmeticError はカタログにないアイテムの指定エラーを生成する。
func NewUnknownCosmeticError(item string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownCosmetic,
		Message:  fmt.Sprintf("存在しないアイテムです: %s", item),
		Category: "shop",
		Action:   "ショップの一覧から選んでください。",
	}
}

// NewCosmeticNotOwnedError は未解放アイテムの選択エラーを生成する。
func NewCosmeticNotOwnedError(item string) *APIError {
	return &APIError{
		Code:     ErrCodeCosmeticNotOwned,
		Message:  fmt.Sprintf("このアイテムはまだ解放されていません: %s", item),
		Category: "shop",
		Action:   "先にショップで購入してください。",
	}
}

// NewStopwatchRunningError はストップウォッチの二重開始エラーを生成する。
func NewStopwatchRunningError(subject string) *APIError {
	return &APIError{
		Code:     ErrCodeStopwatchRunning,
		Message:  fmt.Sprintf("すでに「%s」の勉強を計測中です。", subject),
		Category: "ledger",
		Action:   "いまのセッションを終了してから新しく開始してください。",
	}
}

// NewStopwatchNotRunningError は未開始のストップウォッチ停止エラーを生成する。
func NewStopwatchNotRunningError() *APIError {
	return &APIError{
		Code:     ErrCodeStopwatchNotRunning,
		Message:  "計測中の勉強セッションがありません。",
		Category: "ledger",
		Action:   "先にスタートしてください。",
	}
}
