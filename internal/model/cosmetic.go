// Package model はドメインモデルを定義する。
package model

import "strings"

// CosmeticKind はコスメティックの種別を表す。
type CosmeticKind string

const (
	// CosmeticFont はフォント（テーマ）。
	CosmeticFont CosmeticKind = "font"
	// CosmeticWallpaper は壁紙。
	CosmeticWallpaper CosmeticKind = "wallpaper"
	// CosmeticTitle は称号。
	CosmeticTitle CosmeticKind = "title"
)

// IsValid は既知の種別かどうかを返す。
func (k CosmeticKind) IsValid() bool {
	switch k {
	case CosmeticFont, CosmeticWallpaper, CosmeticTitle:
		return true
	}
	return false
}

// 新規登録時のデフォルトコスメティック。
const (
	DefaultFont      = "ピクセル風"
	DefaultWallpaper = "草原"
	DefaultTitle     = "見習い"
)

// 解放済みコスメティックはDB上でカンマ区切り文字列として保持される。
// 以下はその集合操作のヘルパー。

// UnlockSetItems はカンマ区切りの解放済み集合を要素のスライスに分解する。
// 空要素は取り除かれる。
func UnlockSetItems(set string) []string {
	if set == "" {
		return nil
	}
	parts := strings.Split(set, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			items = append(items, p)
		}
	}
	return items
}

// UnlockSetContains は解放済み集合にitemが含まれるかを返す。
func UnlockSetContains(set, item string) bool {
	for _, v := range UnlockSetItems(set) {
		if v == item {
			return true
		}
	}
	return false
}

// UnlockSetAdd は解放済み集合にitemを追加した新しい集合を返す。
// すでに含まれている場合は変更しない（重複エントリを作らない）。
func UnlockSetAdd(set, item string) string {
	if UnlockSetContains(set, item) {
		return set
	}
	if set == "" {
		return item
	}
	return set + "," + item
}
