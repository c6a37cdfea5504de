package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/inventory"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// mockRunStore はRunStoreInterfaceのモック実装。
type mockRunStore struct {
	addRunFn    func(ctx context.Context, storeName, date string, drafts []*model.ItemDraft) (*model.GroceryRun, []*model.InventoryItem, []string, error)
	listRunsFn  func() []*inventory.RunView
	getRunFn    func(id string) *inventory.RunView
	deleteRunFn func(ctx context.Context, id string) error
}

func (m *mockRunStore) AddRun(ctx context.Context, storeName, date string, drafts []*model.ItemDraft) (*model.GroceryRun, []*model.InventoryItem, []string, error) {
	if m.addRunFn != nil {
		return m.addRunFn(ctx, storeName, date, drafts)
	}
	return nil, nil, nil, nil
}

func (m *mockRunStore) ListRuns() []*inventory.RunView {
	if m.listRunsFn != nil {
		return m.listRunsFn()
	}
	return []*inventory.RunView{}
}

func (m *mockRunStore) GetRun(id string) *inventory.RunView {
	if m.getRunFn != nil {
		return m.getRunFn(id)
	}
	return nil
}

func (m *mockRunStore) DeleteRun(ctx context.Context, id string) error {
	if m.deleteRunFn != nil {
		return m.deleteRunFn(ctx, id)
	}
	return nil
}

// --- POST /api/runs テスト ---

func TestRunHandler_AddRun_Success(t *testing.T) {
	store := &mockRunStore{
		addRunFn: func(ctx context.Context, storeName, date string, drafts []*model.ItemDraft) (*model.GroceryRun, []*model.InventoryItem, []string, error) {
			if storeName != "成城石井" {
				t.Errorf("storeName = %q, want %q", storeName, "成城石井")
			}
			if date != "2026-02-15" {
				t.Errorf("date = %q, want %q", date, "2026-02-15")
			}
			if len(drafts) != 1 {
				t.Fatalf("drafts = %d, want 1", len(drafts))
			}
			run := &model.GroceryRun{
				ID:        "run-1",
				StoreName: storeName,
				Date:      date,
				ItemIDs:   []string{"item-1"},
			}
			return run, []*model.InventoryItem{testItem("item-1", "牛乳")}, nil, nil
		},
	}
	h := NewRunHandler(store, nil)

	body := []byte(`{"store_name":"成城石井","date":"2026-02-15","items":[{"name":"牛乳","quantity":"1"}]}`)
	req := newItemRequest(http.MethodPost, "/api/runs", "", body)
	w := httptest.NewRecorder()

	h.AddRun(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp addRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Run.ID != "run-1" {
		t.Errorf("run.ID = %q, want %q", resp.Run.ID, "run-1")
	}
	if len(resp.Items) != 1 {
		t.Errorf("items = %d, want 1", len(resp.Items))
	}
}

func TestRunHandler_AddRun_InvalidDate(t *testing.T) {
	store := &mockRunStore{
		addRunFn: func(ctx context.Context, storeName, date string, drafts []*model.ItemDraft) (*model.GroceryRun, []*model.InventoryItem, []string, error) {
			return nil, nil, nil, model.NewInvalidRequestError("dateはYYYY-MM-DD形式で指定してください。")
		},
	}
	h := NewRunHandler(store, nil)

	body := []byte(`{"store_name":"スーパー","date":"2026/02/15","items":[{"name":"牛乳"}]}`)
	req := newItemRequest(http.MethodPost, "/api/runs", "", body)
	w := httptest.NewRecorder()

	h.AddRun(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRunHandler_AddRun_EmptyItems(t *testing.T) {
	h := NewRunHandler(&mockRunStore{}, nil)

	body := []byte(`{"store_name":"スーパー","date":"2026-02-15","items":[]}`)
	req := newItemRequest(http.MethodPost, "/api/runs", "", body)
	w := httptest.NewRecorder()

	h.AddRun(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// --- GET /api/runs テスト ---

func TestRunHandler_ListRuns_Success(t *testing.T) {
	store := &mockRunStore{
		listRunsFn: func() []*inventory.RunView {
			return []*inventory.RunView{
				{
					GroceryRun: &model.GroceryRun{ID: "run-1", StoreName: "成城石井", Date: "2026-02-15", ItemIDs: []string{"item-1"}},
					Items: []*inventory.ItemView{
						{InventoryItem: testItem("item-1", "牛乳"), DisplayStatus: model.DisplayStatusFresh},
					},
				},
			}
		},
	}
	h := NewRunHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()

	h.ListRuns(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp runListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(resp.Runs))
	}
	if len(resp.Runs[0].Items) != 1 {
		t.Errorf("run items = %d, want 1", len(resp.Runs[0].Items))
	}
}

// --- GET /api/runs/:id テスト ---

func TestRunHandler_GetRun_Success(t *testing.T) {
	store := &mockRunStore{
		getRunFn: func(id string) *inventory.RunView {
			if id != "run-1" {
				t.Errorf("id = %q, want %q", id, "run-1")
			}
			return &inventory.RunView{
				GroceryRun: &model.GroceryRun{ID: "run-1", StoreName: "成城石井", Date: "2026-02-15", ItemIDs: []string{"item-1"}},
				Items: []*inventory.ItemView{
					{InventoryItem: testItem("item-1", "牛乳"), DisplayStatus: model.DisplayStatusFresh},
				},
			}
		},
	}
	h := NewRunHandler(store, nil)

	req := newItemRequest(http.MethodGet, "/api/runs/run-1", "run-1", nil)
	w := httptest.NewRecorder()

	h.GetRun(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var view inventory.RunView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if view.StoreName != "成城石井" {
		t.Errorf("store_name = %q, want %q", view.StoreName, "成城石井")
	}
}

func TestRunHandler_GetRun_NotFound(t *testing.T) {
	h := NewRunHandler(&mockRunStore{}, nil)

	req := newItemRequest(http.MethodGet, "/api/runs/missing", "missing", nil)
	w := httptest.NewRecorder()

	h.GetRun(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- DELETE /api/runs/:id テスト ---

func TestRunHandler_DeleteRun_Success(t *testing.T) {
	var deletedID string
	store := &mockRunStore{
		deleteRunFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	h := NewRunHandler(store, nil)

	req := newItemRequest(http.MethodDelete, "/api/runs/run-1", "run-1", nil)
	w := httptest.NewRecorder()

	h.DeleteRun(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if deletedID != "run-1" {
		t.Errorf("deletedID = %q, want %q", deletedID, "run-1")
	}
}

func TestRunHandler_DeleteRun_NotFound(t *testing.T) {
	store := &mockRunStore{
		deleteRunFn: func(ctx context.Context, id string) error {
			return model.NewRunNotFoundError(id)
		},
	}
	h := NewRunHandler(store, nil)

	req := newItemRequest(http.MethodDelete, "/api/runs/missing", "missing", nil)
	w := httptest.NewRecorder()

	h.DeleteRun(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
