package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/metrics"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ストア（1つの*inventory.Storeが全インターフェースを満たす）
	ItemStore   ItemStoreInterface
	RunStore    RunStoreInterface
	ReportStore ReportStoreInterface

	// バーコード解決
	Resolver ProductResolverInterface

	// レシピ
	Suggester SuggesterInterface
	IdeaFeed  IdeaFeedInterface

	// 観測
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → CORSMiddleware → SecurityHeadersMiddleware →
//	LoggingMiddleware → MetricsMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// ヘルスチェック（/healthz）とメトリクス（/metrics）はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	productHandler := NewProductHandler(deps.Resolver, deps.Metrics)
	itemHandler := NewItemHandler(deps.ItemStore, deps.Metrics)
	runHandler := NewRunHandler(deps.RunStore, deps.Metrics)
	reportHandler := NewReportHandler(deps.ReportStore)
	recipeHandler := NewRecipeHandler(deps.Suggester, deps.IdeaFeed, deps.Logger)

	// --- 運用ルート（レート制限の外） ---
	if deps.DB != nil {
		r.Get("/healthz", NewHealthHandler(deps.DB))
	}
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// バーコード解決（外部API呼び出しのため専用レート制限を追加）
		r.With(deps.RateLimiter.LookupMiddleware()).
			Get("/api/products/{barcode}", productHandler.Lookup)

		// 在庫アイテム管理
		r.Route("/api/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.AddItems)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", itemHandler.GetItem)
				r.Patch("/", itemHandler.UpdateItem)
				r.Delete("/", itemHandler.DeleteItem)
				r.Post("/finish", itemHandler.MarkFinished)
				r.Post("/spoil", itemHandler.MarkSpoiled)
			})
		})

		// 買い物ラン管理
		r.Route("/api/runs", func(r chi.Router) {
			r.Get("/", runHandler.ListRuns)
			r.Post("/", runHandler.AddRun)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", runHandler.GetRun)
				r.Delete("/", runHandler.DeleteRun)
			})
		})

		// 集計レポート
		r.Route("/api/reports", func(r chi.Router) {
			r.Get("/dashboard", reportHandler.Dashboard)
			r.Get("/history", reportHandler.History)
		})

		// レシピ提案
		r.Route("/api/recipes", func(r chi.Router) {
			r.Get("/suggestions", recipeHandler.Suggestions)
			r.Get("/search", recipeHandler.Search)
		})

		// 全データ削除
		r.Delete("/api/state", itemHandler.ClearAll)
	})

	return r
}
