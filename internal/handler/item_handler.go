package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/inventory"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/middleware"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// ItemStoreInterface はアイテムハンドラーが必要とするストア操作のインターフェース。
type ItemStoreInterface interface {
	// AddItems はドラフトを検証してアイテムを一括登録する。戻り値は登録済みアイテムと助言警告。
	AddItems(ctx context.Context, drafts []*model.ItemDraft) ([]*model.InventoryItem, []string, error)
	// ListItems は導出ステータスでフィルタしたアイテム一覧を返す。
	ListItems(filter, query string) ([]*inventory.ItemView, error)
	// GetItem はアイテムを導出ステータス付きで返す。存在しない場合はnil。
	GetItem(id string) *inventory.ItemView
	// UpdateItem はアイテムを部分更新する。nilフィールドは変更しない。
	UpdateItem(ctx context.Context, id string, update *model.ItemUpdate) (*model.InventoryItem, []string, error)
	// DeleteItem はアイテムを削除する。
	DeleteItem(ctx context.Context, id string) error
	// MarkFinished はアイテムをfinishedに遷移させる。存在しないIDは無視されnilを返す。
	MarkFinished(ctx context.Context, id string) (*model.InventoryItem, error)
	// MarkSpoiled はアイテムをspoiledに遷移させる。存在しないIDは無視されnilを返す。
	MarkSpoiled(ctx context.Context, id string) (*model.InventoryItem, error)
	// ClearAll は全アイテムと全ランを削除する。
	ClearAll(ctx context.Context) error
}

// TransitionRecorder は終端状態への遷移を記録するメトリクスのインターフェース。
type TransitionRecorder interface {
	RecordItemsAdded(count int)
	RecordStatusTransition(status string)
}

// nopTransitionRecorder はメトリクス未設定時のフォールバック。
type nopTransitionRecorder struct{}

func (nopTransitionRecorder) RecordItemsAdded(count int) {}
func (nopTransitionRecorder) RecordStatusTransition(status string) {}

// ItemHandler は在庫アイテム管理のHTTPハンドラー。
type ItemHandler struct {
	store   ItemStoreInterface
	metrics TransitionRecorder
}

// NewItemHandler はItemHandlerを生成する。metricsがnilの場合は記録しない。
func NewItemHandler(store ItemStoreInterface, metrics TransitionRecorder) *ItemHandler {
	if metrics == nil {
		metrics = nopTransitionRecorder{}
	}
	return &ItemHandler{store: store, metrics: metrics}
}

// --- リクエスト・レスポンス型 ---

// addItemsRequest はアイテム一括登録リクエストのボディ。
type addItemsRequest struct {
	Items []*model.ItemDraft `json:"items"`
}

// addItemsResponse はアイテム一括登録のレスポンス。
type addItemsResponse struct {
	Items    []*model.InventoryItem `json:"items"`
	Warnings []string               `json:"warnings"`
}

// updateItemResponse はアイテム更新のレスポンス。
type updateItemResponse struct {
	Item     *model.InventoryItem `json:"item"`
	Warnings []string             `json:"warnings"`
}

// itemListResponse はアイテム一覧のレスポンス。
type itemListResponse struct {
	Items []*inventory.ItemView `json:"items"`
	Total int                   `json:"total"`
}

// ListItems はアイテム一覧を取得する。
// GET /api/items?filter=all|fresh|expiring|expired|finished|spoiled&q=検索語
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	query := r.URL.Query().Get("q")

	views, err := h.store.ListItems(filter, query)
	if err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itemListResponse{Items: views, Total: len(views)})
}

// GetItem はアイテム詳細を導出ステータス付きで取得する。
// GET /api/items/:id
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	view := h.store.GetItem(itemID)
	if view == nil {
		middleware.WriteAPIError(w, model.NewItemNotFoundError(itemID))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// AddItems はアイテムを一括登録する。
// POST /api/items
//
// 整合性違反（数量不正・賞味期限が購入日より前）が1件でもあれば
// バッチ全体が422で拒否される。助言警告は登録を妨げず、レスポンスに同梱される。
func (h *ItemHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("リクエストボディの解析に失敗しました。"))
		return
	}
	if len(req.Items) == 0 {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("itemsに1件以上のアイテムを指定してください。"))
		return
	}

	items, warnings, err := h.store.AddItems(r.Context(), req.Items)
	if err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	h.metrics.RecordItemsAdded(len(items))

	if warnings == nil {
		warnings = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(addItemsResponse{Items: items, Warnings: warnings})
}

// UpdateItem はアイテムを部分更新する。
// PATCH /api/items/:id
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	var update model.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("リクエストボディの解析に失敗しました。"))
		return
	}

	item, warnings, err := h.store.UpdateItem(r.Context(), itemID, &update)
	if err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	if warnings == nil {
		warnings = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updateItemResponse{Item: item, Warnings: warnings})
}

// DeleteItem はアイテムを削除する。
// DELETE /api/items/:id
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	if err := h.store.DeleteItem(r.Context(), itemID); err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkFinished はアイテムを消費済みに遷移させる。
// POST /api/items/:id/finish
//
// 存在しないIDへの遷移は黙って無視される（204）。同じ終端状態の再指定は冪等。
func (h *ItemHandler) MarkFinished(w http.ResponseWriter, r *http.Request) {
	h.markStatus(w, r, model.ItemStatusFinished)
}

// MarkSpoiled はアイテムを廃棄済みに遷移させる。
// POST /api/items/:id/spoil
func (h *ItemHandler) MarkSpoiled(w http.ResponseWriter, r *http.Request) {
	h.markStatus(w, r, model.ItemStatusSpoiled)
}

func (h *ItemHandler) markStatus(w http.ResponseWriter, r *http.Request, status model.ItemStatus) {
	itemID := chi.URLParam(r, "id")

	var item *model.InventoryItem
	var err error
	switch status {
	case model.ItemStatusSpoiled:
		item, err = h.store.MarkSpoiled(r.Context(), itemID)
	default:
		item, err = h.store.MarkFinished(r.Context(), itemID)
	}
	if err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.metrics.RecordStatusTransition(string(status))

	// 遷移後の導出ステータスを含む現在形を返す
	view := h.store.GetItem(itemID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// ClearAll は全アイテムと全ランを削除する。
// DELETE /api/state
func (h *ItemHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAll(r.Context()); err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
