package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/inventory"
)

// ReportStoreInterface はレポートハンドラーが必要とするストア操作のインターフェース。
type ReportStoreInterface interface {
	// Dashboard はactiveアイテムの鮮度集計を返す。
	Dashboard() *inventory.DashboardReport
	// HistoryStats は終端状態アイテムの消費履歴集計を返す。
	HistoryStats() *inventory.HistoryReport
}

// ReportHandler は集計レポートのHTTPハンドラー。
type ReportHandler struct {
	store ReportStoreInterface
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(store ReportStoreInterface) *ReportHandler {
	return &ReportHandler{store: store}
}

// Dashboard は在庫ダッシュボードの集計を取得する。
// GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.store.Dashboard())
}

// History は消費履歴の集計を取得する。
// GET /api/reports/history
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.store.HistoryStats())
}
