// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザーが入力する表示用文字列（タスク名・
// 勉強内容・ニックネーム）をサニタイズし、保存後にそのまま画面へ
// 描画されてもXSSにならないようにする。bluemondayのStrictPolicyで
// HTMLタグを一切許可しない。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService は表示用文字列のサニタイズ機能のインターフェースを定義する。
// タスク・勉強記録・ユーザーの作成時に使用される。
type InputSanitizerService interface {
	// SanitizeDisplayString は入力からHTMLタグをすべて除去し、
	// 前後の空白を取り除いたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeDisplayString(input string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可せず、テキストのみを通過させる。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeDisplayString は入力からHTMLタグを除去したプレーンテキストを返す。
// StrictPolicyは残ったテキストをエンティティ化するため、
// 「1 < 2」のような普通の文字列が壊れないようにアンエスケープして戻す。
func (s *inputSanitizer) SanitizeDisplayString(input string) string {
	cleaned := s.policy.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// compile-time interface check
var _ InputSanitizerService = (*inputSanitizer)(nil)
