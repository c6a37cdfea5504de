package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/middleware"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// ProductResolverInterface はバーコード解決サービスのインターフェース。
type ProductResolverInterface interface {
	// Resolve はバーコードから商品レコードを取得しドラフト初期値に変換する。
	Resolve(ctx context.Context, barcode string) (*model.ResolvedProduct, error)
}

// LookupRecorder はバーコード解決の結果を記録するメトリクスのインターフェース。
type LookupRecorder interface {
	RecordLookupSuccess()
	RecordLookupNotFound()
	RecordLookupFailure()
	RecordLookupLatency(duration time.Duration)
}

// nopLookupRecorder はメトリクス未設定時のフォールバック。
type nopLookupRecorder struct{}

func (nopLookupRecorder) RecordLookupSuccess() {}
func (nopLookupRecorder) RecordLookupNotFound() {}
func (nopLookupRecorder) RecordLookupFailure() {}
func (nopLookupRecorder) RecordLookupLatency(duration time.Duration) {}

// ProductHandler はバーコード解決のHTTPハンドラー。
type ProductHandler struct {
	resolver ProductResolverInterface
	metrics  LookupRecorder
	nowFn    func() time.Time
}

// NewProductHandler はProductHandlerを生成する。metricsがnilの場合は記録しない。
func NewProductHandler(resolver ProductResolverInterface, metrics LookupRecorder) *ProductHandler {
	if metrics == nil {
		metrics = nopLookupRecorder{}
	}
	return &ProductHandler{
		resolver: resolver,
		metrics:  metrics,
		nowFn:    time.Now,
	}
}

// Lookup はバーコードから商品情報を解決する。
// GET /api/products/:barcode
//
// 未登録のバーコードは404（PRODUCT_NOT_FOUND）、取得失敗は502（LOOKUP_FAILED）。
// いずれの場合も呼び出し側は手入力にフォールバックできる。
func (h *ProductHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	start := h.nowFn()
	resolved, err := h.resolver.Resolve(r.Context(), barcode)
	h.metrics.RecordLookupLatency(h.nowFn().Sub(start))

	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeProductNotFound {
			h.metrics.RecordLookupNotFound()
		} else {
			h.metrics.RecordLookupFailure()
		}
		middleware.WriteAPIError(w, err)
		return
	}

	h.metrics.RecordLookupSuccess()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resolved)
}
