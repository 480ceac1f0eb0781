// Package shop はコイン消費によるコスメティックの購入・選択を提供する。
package shop

import "github.com/mikan/homeru/internal/model"

// Item はショップで販売するコスメティックアイテム。
// デフォルトアイテム（価格0）は全ユーザーが最初から解放済み。
type Item struct {
	Kind  model.CosmeticKind `json:"kind"`
	Name  string             `json:"name"`
	Price int                `json:"price"`
}

// カタログはコードに固定で持つ。商品の追加はデプロイを伴う。
var catalog = []Item{
	{Kind: model.CosmeticFont, Name: model.DefaultFont, Price: 0},
	{Kind: model.CosmeticFont, Name: "手書き風", Price: 30},
	{Kind: model.CosmeticFont, Name: "ポップ", Price: 30},
	{Kind: model.CosmeticFont, Name: "明朝体", Price: 50},
	{Kind: model.CosmeticFont, Name: "筆文字", Price: 80},

	{Kind: model.CosmeticWallpaper, Name: model.DefaultWallpaper, Price: 0},
	{Kind: model.CosmeticWallpaper, Name: "夕焼け", Price: 40},
	{Kind: model.CosmeticWallpaper, Name: "夜空", Price: 40},
	{Kind: model.CosmeticWallpaper, Name: "図書館", Price: 60},
	{Kind: model.CosmeticWallpaper, Name: "ダンジョン", Price: 80},
	{Kind: model.CosmeticWallpaper, Name: "王宮", Price: 120},

	{Kind: model.CosmeticTitle, Name: model.DefaultTitle, Price: 0},
	{Kind: model.CosmeticTitle, Name: "努力家", Price: 50},
	{Kind: model.CosmeticTitle, Name: "勉強の鬼", Price: 100},
	{Kind: model.CosmeticTitle, Name: "賢者", Price: 200},
}

// FindItem はカタログから種別と名前でアイテムを探す。見つからない場合はfalse。
func FindItem(kind model.CosmeticKind, name string) (Item, bool) {
	for _, item := range catalog {
		if item.Kind == kind && item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}

// Catalog は全アイテムをカタログ掲載順で返す。
func Catalog() []Item {
	items := make([]Item, len(catalog))
	copy(items, catalog)
	return items
}
