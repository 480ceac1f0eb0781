package shop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mikan/homeru/internal/model"
	"github.com/mikan/homeru/internal/repository"
)

// MetricsRecorder は購入メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordPurchase(kind string)
}

// Service はショップのサービス層。
type Service struct {
	userRepo repository.UserRepository
	metrics  MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewService(userRepo repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{userRepo: userRepo, metrics: metrics}
}

// CatalogEntry はユーザーの所持状況を付けたカタログの1行。
type CatalogEntry struct {
	Item
	Owned    bool `json:"owned"`
	Selected bool `json:"selected"`
}

// PurchaseResult は購入操作の結果。
// AlreadyOwnedがtrueの場合、コインは動いていない。
type PurchaseResult struct {
	Item         Item `json:"item"`
	AlreadyOwned bool `json:"already_owned"`
	CoinsAfter   int  `json:"coins_after"`
	Spent        int  `json:"spent"`
}

// ListCatalog は全アイテムにユーザーの所持・選択状況を付けて返す。
func (s *Service) ListCatalog(ctx context.Context, username string) ([]CatalogEntry, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザー情報の取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	items := Catalog()
	entries := make([]CatalogEntry, 0, len(items))
	for _, item := range items {
		unlocked, current := cosmeticState(user, item.Kind)
		entries = append(entries, CatalogEntry{
			Item:     item,
			Owned:    model.UnlockSetContains(unlocked, item.Name),
			Selected: current == item.Name,
		})
	}
	return entries, nil
}

// Purchase はアイテムを購入し、解放済み集合に追加する。
// 所持済みアイテムの再購入はエラーではなく所持済みとして返し、コインは動かさない。
// 残高不足はINSUFFICIENT_FUNDSエラー。減算と集合の更新は原子的に適用される。
func (s *Service) Purchase(ctx context.Context, username string, kind model.CosmeticKind, name string) (*PurchaseResult, error) {
	if !kind.IsValid() {
		return nil, model.NewUnknownCosmeticError(name)
	}
	item, ok := FindItem(kind, name)
	if !ok {
		return nil, model.NewUnknownCosmeticError(name)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザー情報の取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	unlocked, _ := cosmeticState(user, kind)
	if model.UnlockSetContains(unlocked, item.Name) {
		return &PurchaseResult{
			Item:         item,
			AlreadyOwned: true,
			CoinsAfter:   user.Coins,
		}, nil
	}

	if user.Coins < item.Price {
		return nil, model.NewInsufficientFundsError(item.Price, user.Coins)
	}

	newUnlocked := model.UnlockSetAdd(unlocked, item.Name)
	if err := s.userRepo.ApplyPurchase(ctx, username, kind, newUnlocked, item.Price); err != nil {
		return nil, fmt.Errorf("購入の適用に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPurchase(string(kind))
	}
	slog.Info("cosmetic purchased",
		slog.String("username", username),
		slog.String("kind", string(kind)),
		slog.String("item", item.Name),
		slog.Int("price", item.Price),
	)

	return &PurchaseResult{
		Item:       item,
		CoinsAfter: user.Coins - item.Price,
		Spent:      item.Price,
	}, nil
}

// Select は現在のコスメティック選択を切り替える。
// 解放済み集合に含まれないアイテムは選べない。
func (s *Service) Select(ctx context.Context, username string, kind model.CosmeticKind, name string) error {
	if !kind.IsValid() {
		return model.NewUnknownCosmeticError(name)
	}
	if _, ok := FindItem(kind, name); !ok {
		return model.NewUnknownCosmeticError(name)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("ユーザー情報の取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	unlocked, _ := cosmeticState(user, kind)
	if !model.UnlockSetContains(unlocked, name) {
		return model.NewCosmeticNotOwnedError(name)
	}

	if err := s.userRepo.UpdateCurrentCosmetic(ctx, username, kind, name); err != nil {
		return fmt.Errorf("選択の更新に失敗しました: %w", err)
	}
	return nil
}

// cosmeticState は種別ごとの（解放済み集合, 現在の選択）を取り出す。
func cosmeticState(user *model.User, kind model.CosmeticKind) (unlocked, current string) {
	switch kind {
	case model.CosmeticFont:
		return user.UnlockedFonts, user.CurrentFont
	case model.CosmeticWallpaper:
		return user.UnlockedWallpapers, user.CurrentWallpaper
	case model.CosmeticTitle:
		return user.UnlockedTitles, user.CurrentTitle
	}
	return "", ""
}
