package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mikan/homeru/internal/model"
	"github.com/mikan/homeru/internal/shop"
)

// ShopServiceInterface はショップハンドラーが必要とするサービスインターフェース。
type ShopServiceInterface interface {
	ListCatalog(ctx context.Context, username string) ([]shop.CatalogEntry, error)
	Purchase(ctx context.Context, username string, kind model.CosmeticKind, name string) (*shop.PurchaseResult, error)
	Select(ctx context.Context, username string, kind model.CosmeticKind, name string) error
}

// ShopHandler はコスメティックショップのHTTPハンドラー。
type ShopHandler struct {
	service ShopServiceInterface
}

// NewShopHandler はShopHandlerを生成する。
func NewShopHandler(service ShopServiceInterface) *ShopHandler {
	return &ShopHandler{service: service}
}

// cosmeticRequest は購入・選択リクエストのボディ。
type cosmeticRequest struct {
	Kind string `json:"kind"` // font / wallpaper / title
	Name string `json:"name"`
}

// ListCatalog は所持状況付きのカタログを返す。
// GET /api/shop
func (h *ShopHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	entries, err := h.service.ListCatalog(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Purchase はアイテムを購入する。
// POST /api/shop/purchase
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	var req cosmeticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	result, err := h.service.Purchase(r.Context(), username, model.CosmeticKind(req.Kind), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// SelectCosmetic は現在のコスメティック選択を切り替える。
// PUT /api/profile/cosmetics
func (h *ShopHandler) SelectCosmetic(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	var req cosmeticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	if err := h.service.Select(r.Context(), username, model.CosmeticKind(req.Kind), req.Name); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
