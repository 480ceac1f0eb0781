// homeru は小中学生向けの学習応援アプリのAPIサーバー。
// タスク管理・勉強時間の計測・報酬によるコスメティック解放を提供する。
//
// サブコマンド:
//
//	serve       APIサーバーを起動する（デフォルト）
//	worker      バックグラウンドワーカーを起動する
//	migrate     データベースマイグレーションを実行する
//	healthcheck ヘルスチェックを実行する
package main

import (
	"fmt"
	"os"

	"github.com/mikan/homeru/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
