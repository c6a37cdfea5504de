// Package recipe は期限間近のアイテムからレシピ提案を生成する機能を提供する。
// 提案は固定テンプレートとアイテムのキーワード照合によるもので、
// 本格的なレシピ検索は外部検索エンジンへのリンク生成のみ（スタブ）。
package recipe

import (
	"net/url"
	"strings"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/inventory"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// ExpiringLister は期限間近のアイテム一覧を提供するインターフェース。
type ExpiringLister interface {
	ExpiringItems() []*inventory.ItemView
}

// Suggestion はレシピ提案1件を表す。
type Suggestion struct {
	Name          string   `json:"name"`
	Ingredients   []string `json:"ingredients"`
	Instructions  string   `json:"instructions"`
	MatchedItems  []string `json:"matched_items"`  // 照合に一致した期限間近アイテムの名前
	ExpiringCount int      `json:"expiring_count"` // 一致数
}

// SuggestionsResult は提案APIのレスポンスを表す。
type SuggestionsResult struct {
	ExpiringCount int           `json:"expiring_count"`
	Suggestions   []*Suggestion `json:"suggestions"`
}

// template は提案テンプレート1件。keywordsはアイテムの名前またはカテゴリと
// 大文字小文字無視で部分一致させる。
type template struct {
	name         string
	ingredients  []string
	instructions string
	keywords     []string
	categories   []model.Category
}

// templates は固定の提案テンプレート（表示順）。
var templates = []template{
	{
		name:         "Stir-Fried Vegetables",
		ingredients:  []string{"Vegetables", "Soy Sauce", "Garlic", "Oil"},
		instructions: "Heat oil in a wok, add garlic, then stir-fry vegetables for 3-4 minutes. Add soy sauce and serve hot over rice.",
		keywords:     []string{"carrot", "broccoli", "pepper", "cabbage", "spinach", "にんじん", "ブロッコリー", "ほうれん草", "キャベツ"},
		categories:   []model.Category{model.CategoryProduce},
	},
	{
		name:         "Fruit Smoothie",
		ingredients:  []string{"Fruit", "Milk", "Honey", "Ice"},
		instructions: "Blend fruit with milk, honey, and ice until smooth. Pour into a glass and enjoy immediately.",
		keywords:     []string{"banana", "berry", "mango", "yogurt", "milk", "バナナ", "いちご", "牛乳", "ヨーグルト"},
		categories:   []model.Category{model.CategoryDairy},
	},
	{
		name:         "Hearty Soup",
		ingredients:  []string{"Vegetables or Meat", "Stock", "Onion", "Salt"},
		instructions: "Simmer chopped ingredients in stock with onion for 20 minutes. Season with salt and pepper to taste.",
		keywords:     []string{"chicken", "potato", "onion", "tofu", "鶏", "じゃがいも", "玉ねぎ", "豆腐"},
		categories:   []model.Category{model.CategoryMeat, model.CategorySeafood},
	},
	{
		name:         "Quick Sandwich",
		ingredients:  []string{"Bread", "Deli Meat or Cheese", "Lettuce", "Mustard"},
		instructions: "Layer fillings between slices of bread. Toast if the bread is a day past its best.",
		keywords:     []string{"bread", "ham", "cheese", "パン", "ハム", "チーズ"},
		categories:   []model.Category{model.CategoryBakery, model.CategoryDeli},
	},
}

// defaultSearchBaseURL はレシピ検索リンクの生成先。
// 検索自体はこのシステムの対象外で、リンクを返すのみ。
const defaultSearchBaseURL = "https://www.google.com/search"

// SuggesterService はレシピ提案のインターフェース。
type SuggesterService interface {
	// Suggestions は期限間近のアイテムに一致した提案を返す。
	Suggestions() *SuggestionsResult
	// SearchURL は材料名から外部レシピ検索のURLを生成する。
	SearchURL(query string) string
}

// suggesterService はSuggesterServiceの実装。
type suggesterService struct {
	lister ExpiringLister
}

// NewSuggesterService はSuggesterServiceの新しいインスタンスを生成する。
func NewSuggesterService(lister ExpiringLister) SuggesterService {
	return &suggesterService{lister: lister}
}

// matches はアイテムがテンプレートに一致するか判定する。
func (t *template) matches(item *inventory.ItemView) bool {
	name := strings.ToLower(item.Name)
	for _, kw := range t.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	for _, c := range t.categories {
		if item.Category == c {
			return true
		}
	}
	return false
}

// Suggestions はSuggesterServiceのインターフェースを実装する。
// 一致するアイテムが1件以上あるテンプレートのみを返す。
// 期限間近のアイテムがなければ提案も空。
func (s *suggesterService) Suggestions() *SuggestionsResult {
	expiring := s.lister.ExpiringItems()
	result := &SuggestionsResult{
		ExpiringCount: len(expiring),
		Suggestions:   []*Suggestion{},
	}
	if len(expiring) == 0 {
		return result
	}

	for i := range templates {
		t := &templates[i]
		var matched []string
		for _, item := range expiring {
			if t.matches(item) {
				matched = append(matched, item.Name)
			}
		}
		if len(matched) == 0 {
			continue
		}
		result.Suggestions = append(result.Suggestions, &Suggestion{
			Name:          t.name,
			Ingredients:   t.ingredients,
			Instructions:  t.instructions,
			MatchedItems:  matched,
			ExpiringCount: len(matched),
		})
	}
	return result
}

// SearchURL はSuggesterServiceのインターフェースを実装する。
func (s *suggesterService) SearchURL(query string) string {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(query)+" recipe")
	return defaultSearchBaseURL + "?" + q.Encode()
}
