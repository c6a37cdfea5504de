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

// RunStoreInterface はランハンドラーが必要とするストア操作のインターフェース。
type RunStoreInterface interface {
	// AddRun は買い物ランとそのメンバーアイテムをまとめて登録する。
	AddRun(ctx context.Context, storeName, date string, drafts []*model.ItemDraft) (*model.GroceryRun, []*model.InventoryItem, []string, error)
	// ListRuns は全ランを新しい順に返す。
	ListRuns() []*inventory.RunView
	// GetRun はランをメンバーアイテムの現在形付きで返す。存在しない場合はnil。
	GetRun(id string) *inventory.RunView
	// DeleteRun はランのグルーピングのみ削除する。メンバーアイテムは存続する。
	DeleteRun(ctx context.Context, id string) error
}

// RunHandler は買い物ラン管理のHTTPハンドラー。
type RunHandler struct {
	store   RunStoreInterface
	metrics TransitionRecorder
}

// NewRunHandler はRunHandlerを生成する。metricsがnilの場合は記録しない。
func NewRunHandler(store RunStoreInterface, metrics TransitionRecorder) *RunHandler {
	if metrics == nil {
		metrics = nopTransitionRecorder{}
	}
	return &RunHandler{store: store, metrics: metrics}
}

// --- リクエスト・レスポンス型 ---

// addRunRequest は買い物ラン登録リクエストのボディ。
type addRunRequest struct {
	StoreName string             `json:"store_name"`
	Date      string             `json:"date"`
	Items     []*model.ItemDraft `json:"items"`
}

// addRunResponse は買い物ラン登録のレスポンス。
type addRunResponse struct {
	Run      *model.GroceryRun      `json:"run"`
	Items    []*model.InventoryItem `json:"items"`
	Warnings []string               `json:"warnings"`
}

// runListResponse はラン一覧のレスポンス。
type runListResponse struct {
	Runs []*inventory.RunView `json:"runs"`
}

// AddRun は買い物ランとそのアイテムをまとめて登録する。
// POST /api/runs
func (h *RunHandler) AddRun(w http.ResponseWriter, r *http.Request) {
	var req addRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("リクエストボディの解析に失敗しました。"))
		return
	}
	if len(req.Items) == 0 {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("itemsに1件以上のアイテムを指定してください。"))
		return
	}

	run, items, warnings, err := h.store.AddRun(r.Context(), req.StoreName, req.Date, req.Items)
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
	json.NewEncoder(w).Encode(addRunResponse{Run: run, Items: items, Warnings: warnings})
}

// ListRuns はラン一覧をメンバーアイテムの現在形付きで取得する。
// GET /api/runs
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs := h.store.ListRuns()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runListResponse{Runs: runs})
}

// GetRun はラン詳細をメンバーアイテムの現在形付きで取得する。
// GET /api/runs/:id
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	view := h.store.GetRun(runID)
	if view == nil {
		middleware.WriteAPIError(w, model.NewRunNotFoundError(runID))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// DeleteRun はランのグルーピングを削除する。メンバーアイテムは在庫に残る。
// DELETE /api/runs/:id
func (h *RunHandler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	if err := h.store.DeleteRun(r.Context(), runID); err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
