package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/middleware"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/recipe"
)

// SuggesterInterface はレシピ提案サービスのインターフェース。
type SuggesterInterface interface {
	// Suggestions は期限間近のアイテムに一致したテンプレート提案を返す。
	Suggestions() *recipe.SuggestionsResult
	// SearchURL は材料名から外部レシピ検索のURLを生成する。
	SearchURL(query string) string
}

// IdeaFeedInterface はレシピアイデアフィードのインターフェース。
type IdeaFeedInterface interface {
	Entries(ctx context.Context) ([]*recipe.IdeaEntry, error)
}

// RecipeHandler はレシピ提案のHTTPハンドラー。
type RecipeHandler struct {
	suggester SuggesterInterface
	ideaFeed  IdeaFeedInterface
	logger    *slog.Logger
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(suggester SuggesterInterface, ideaFeed IdeaFeedInterface, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		suggester: suggester,
		ideaFeed:  ideaFeed,
		logger:    logger,
	}
}

// --- レスポンス型 ---

// suggestionsResponse はレシピ提案のレスポンス。
type suggestionsResponse struct {
	ExpiringCount int                  `json:"expiring_count"`
	Suggestions   []*recipe.Suggestion `json:"suggestions"`
	Ideas         []*recipe.IdeaEntry  `json:"ideas"`
}

// searchResponse はレシピ検索スタブのレスポンス。
type searchResponse struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

// Suggestions は期限間近のアイテムに基づくレシピ提案とアイデアフィードを取得する。
// GET /api/recipes/suggestions
//
// アイデアフィードの取得失敗は提案を妨げない。ideasは空配列で返る。
func (h *RecipeHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	result := h.suggester.Suggestions()

	ideas, err := h.ideaFeed.Entries(r.Context())
	if err != nil {
		h.logger.Warn("レシピアイデアフィードの取得に失敗",
			slog.String("error", err.Error()))
		ideas = []*recipe.IdeaEntry{}
	}
	if ideas == nil {
		ideas = []*recipe.IdeaEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggestionsResponse{
		ExpiringCount: result.ExpiringCount,
		Suggestions:   result.Suggestions,
		Ideas:         ideas,
	})
}

// Search は材料名に対する外部レシピ検索のURLを返す。
// GET /api/recipes/search?q=材料名
//
// 検索の実装は持たず、外部検索エンジンへのリンク生成のみを行う。
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("検索語qを指定してください。"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(searchResponse{
		Query: query,
		URL:   h.suggester.SearchURL(query),
	})
}
