package inventory

import (
	"sort"
	"strings"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// FilterAll は全アイテムを対象とするフィルタ値。空文字も同義として扱う。
const FilterAll = "all"

// ItemView はアイテムに導出ステータスを付与した読み取り表現。
// DisplayStatusは読み取りのたびに今日の日付で導出されるため、
// 同じアイテムでも日が変われば結果が変わる。
type ItemView struct {
	*model.InventoryItem
	DisplayStatus model.DisplayStatus `json:"display_status"`
}

// RunView は買い物ランにメンバーアイテムの現在形を付与した読み取り表現。
// すでに削除されたアイテムのIDはスキップされる。
type RunView struct {
	*model.GroceryRun
	Items []*ItemView `json:"items"`
}

// DashboardReport は在庫ダッシュボードの集計を表す。
// 集計対象はactiveなアイテムのみ。
type DashboardReport struct {
	TotalActive   int         `json:"total_active"`
	FreshCount    int         `json:"fresh_count"`
	ExpiringCount int         `json:"expiring_count"`
	ExpiredCount  int         `json:"expired_count"`
	ExpiringSoon  []*ItemView `json:"expiring_soon"`
}

// HistoryReport は消費履歴の集計を表す。
// 集計対象は終端状態（finished / spoiled）のアイテムのみ。
type HistoryReport struct {
	FinishedCount     int                    `json:"finished_count"`
	SpoiledCount      int                    `json:"spoiled_count"`
	SpoiledByCategory map[model.Category]int `json:"spoiled_by_category"`
	Items             []*ItemView            `json:"items"`
}

// viewOf は今日の日付で導出ステータスを付与する。
func viewOf(item *model.InventoryItem, today model.CivilDate) *ItemView {
	return &ItemView{
		InventoryItem: item,
		DisplayStatus: model.DeriveDisplayStatus(item, today),
	}
}

// matchesQuery は名前・ブランド・メモに対する部分一致検索（大文字小文字無視）。
func matchesQuery(item *model.InventoryItem, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Brand), q) ||
		strings.Contains(strings.ToLower(item.Notes), q)
}

// validFilters は受理するフィルタ値の集合。
var validFilters = map[string]bool{
	FilterAll:                           true,
	string(model.DisplayStatusFresh):    true,
	string(model.DisplayStatusExpiring): true,
	string(model.DisplayStatusExpired):  true,
	string(model.DisplayStatusFinished): true,
	string(model.DisplayStatusSpoiled):  true,
}

// sortViews は賞味期限の近い順に並べる。期限未設定は末尾、同着は追加の新しい順。
func sortViews(views []*ItemView) {
	sort.SliceStable(views, func(i, j int) bool {
		di, erri := model.ParseCivilDate(views[i].BestBeforeDate)
		dj, errj := model.ParseCivilDate(views[j].BestBeforeDate)
		if erri != nil && errj != nil {
			return views[i].AddedAt.After(views[j].AddedAt)
		}
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		if di != dj {
			return di.Before(dj)
		}
		return views[i].AddedAt.After(views[j].AddedAt)
	})
}

// ListItems は導出ステータスでフィルタしたアイテム一覧を返す。
// filterが空またはallの場合は全件。queryは名前・ブランド・メモの部分一致。
// 無効なfilterはエラーとして弾く（サイレントに全件へフォールバックしない）。
func (s *Store) ListItems(filter, query string) ([]*ItemView, error) {
	if filter == "" {
		filter = FilterAll
	}
	if !validFilters[filter] {
		return nil, model.NewInvalidFilterError(filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.CivilDateOf(s.nowFn())
	views := make([]*ItemView, 0, len(s.items))
	for _, item := range s.items {
		v := viewOf(item, today)
		if filter != FilterAll && string(v.DisplayStatus) != filter {
			continue
		}
		if !matchesQuery(item, strings.TrimSpace(query)) {
			continue
		}
		views = append(views, v)
	}
	sortViews(views)
	return views, nil
}

// GetItem はID指定でアイテム1件を返す。存在しない場合はnilを返す。
func (s *Store) GetItem(id string) *ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.CivilDateOf(s.nowFn())
	for _, item := range s.items {
		if item.ID == id {
			return viewOf(item, today)
		}
	}
	return nil
}

// GetRun はランをメンバーアイテムの現在形付きで返す。存在しない場合はnil。
func (s *Store) GetRun(id string) *RunView {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.CivilDateOf(s.nowFn())
	for _, run := range s.runs {
		if run.ID != id {
			continue
		}
		rv := &RunView{GroceryRun: run, Items: []*ItemView{}}
		for _, itemID := range run.ItemIDs {
			for _, item := range s.items {
				if item.ID == itemID {
					rv.Items = append(rv.Items, viewOf(item, today))
					break
				}
			}
		}
		return rv
	}
	return nil
}

// ListRuns は買い物ランの一覧をメンバーアイテム付きで返す（新しい順）。
func (s *Store) ListRuns() []*RunView {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.CivilDateOf(s.nowFn())
	byID := make(map[string]*model.InventoryItem, len(s.items))
	for _, item := range s.items {
		byID[item.ID] = item
	}

	views := make([]*RunView, 0, len(s.runs))
	for _, run := range s.runs {
		rv := &RunView{GroceryRun: run, Items: []*ItemView{}}
		for _, id := range run.ItemIDs {
			if item, ok := byID[id]; ok {
				rv.Items = append(rv.Items, viewOf(item, today))
			}
		}
		views = append(views, rv)
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views
}

// Dashboard はactiveアイテムのステータス集計と期限間近の一覧を返す。
func (s *Store) Dashboard() *DashboardReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.CivilDateOf(s.nowFn())
	report := &DashboardReport{ExpiringSoon: []*ItemView{}}
	for _, item := range s.items {
		if item.Status != model.ItemStatusActive {
			continue
		}
		report.TotalActive++
		v := viewOf(item, today)
		switch v.DisplayStatus {
		case model.DisplayStatusFresh:
			report.FreshCount++
		case model.DisplayStatusExpiring:
			report.ExpiringCount++
			report.ExpiringSoon = append(report.ExpiringSoon, v)
		case model.DisplayStatusExpired:
			report.ExpiredCount++
		}
	}
	sortViews(report.ExpiringSoon)
	return report
}

// HistoryStats は終端状態アイテムの集計を返す。
// 廃棄のカテゴリ別内訳は「何を腐らせがちか」の振り返りに使う。
func (s *Store) HistoryStats() *HistoryReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.CivilDateOf(s.nowFn())
	report := &HistoryReport{
		SpoiledByCategory: map[model.Category]int{},
		Items:             []*ItemView{},
	}
	for _, item := range s.items {
		switch item.Status {
		case model.ItemStatusFinished:
			report.FinishedCount++
		case model.ItemStatusSpoiled:
			report.SpoiledCount++
			if item.Category != "" {
				report.SpoiledByCategory[item.Category]++
			}
		default:
			continue
		}
		report.Items = append(report.Items, viewOf(item, today))
	}
	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].AddedAt.After(report.Items[j].AddedAt)
	})
	return report
}

// ExpiringItems は期限間近（expiring）のactiveアイテムを期限の近い順で返す。
// レシピ提案の入力として使う。
func (s *Store) ExpiringItems() []*ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.CivilDateOf(s.nowFn())
	views := []*ItemView{}
	for _, item := range s.items {
		if item.Status != model.ItemStatusActive {
			continue
		}
		if v := viewOf(item, today); v.DisplayStatus == model.DisplayStatusExpiring {
			views = append(views, v)
		}
	}
	sortViews(views)
	return views
}
