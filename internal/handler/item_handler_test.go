package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/inventory"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// --- モック定義 ---

// mockItemStore はItemStoreInterfaceのモック実装。
type mockItemStore struct {
	addItemsFn     func(ctx context.Context, drafts []*model.ItemDraft) ([]*model.InventoryItem, []string, error)
	listItemsFn    func(filter, query string) ([]*inventory.ItemView, error)
	getItemFn      func(id string) *inventory.ItemView
	updateItemFn   func(ctx context.Context, id string, update *model.ItemUpdate) (*model.InventoryItem, []string, error)
	deleteItemFn   func(ctx context.Context, id string) error
	markFinishedFn func(ctx context.Context, id string) (*model.InventoryItem, error)
	markSpoiledFn  func(ctx context.Context, id string) (*model.InventoryItem, error)
	clearAllFn     func(ctx context.Context) error
}

func (m *mockItemStore) AddItems(ctx context.Context, drafts []*model.ItemDraft) ([]*model.InventoryItem, []string, error) {
	if m.addItemsFn != nil {
		return m.addItemsFn(ctx, drafts)
	}
	return nil, nil, nil
}

func (m *mockItemStore) ListItems(filter, query string) ([]*inventory.ItemView, error) {
	if m.listItemsFn != nil {
		return m.listItemsFn(filter, query)
	}
	return []*inventory.ItemView{}, nil
}

func (m *mockItemStore) GetItem(id string) *inventory.ItemView {
	if m.getItemFn != nil {
		return m.getItemFn(id)
	}
	return nil
}

func (m *mockItemStore) UpdateItem(ctx context.Context, id string, update *model.ItemUpdate) (*model.InventoryItem, []string, error) {
	if m.updateItemFn != nil {
		return m.updateItemFn(ctx, id, update)
	}
	return nil, nil, nil
}

func (m *mockItemStore) DeleteItem(ctx context.Context, id string) error {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, id)
	}
	return nil
}

func (m *mockItemStore) MarkFinished(ctx context.Context, id string) (*model.InventoryItem, error) {
	if m.markFinishedFn != nil {
		return m.markFinishedFn(ctx, id)
	}
	return nil, nil
}

func (m *mockItemStore) MarkSpoiled(ctx context.Context, id string) (*model.InventoryItem, error) {
	if m.markSpoiledFn != nil {
		return m.markSpoiledFn(ctx, id)
	}
	return nil, nil
}

func (m *mockItemStore) ClearAll(ctx context.Context) error {
	if m.clearAllFn != nil {
		return m.clearAllFn(ctx)
	}
	return nil
}

// newItemRequest はchiのURLパラメータを含むリクエストを生成するヘルパー。
func newItemRequest(method, target, itemID string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if itemID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", itemID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func testItem(id, name string) *model.InventoryItem {
	return &model.InventoryItem{
		ID:             id,
		Name:           name,
		Category:       model.CategoryDairy,
		Storage:        model.StorageFridge,
		Quantity:       "1",
		Unit:           "ct",
		BestBeforeDate: "2026-03-01",
		PurchaseDate:   "2026-02-15",
		Status:         model.ItemStatusActive,
	}
}

// --- GET /api/items テスト ---

func TestItemHandler_ListItems_Success(t *testing.T) {
	store := &mockItemStore{
		listItemsFn: func(filter, query string) ([]*inventory.ItemView, error) {
			if filter != "expiring" {
				t.Errorf("filter = %q, want %q", filter, "expiring")
			}
			if query != "milk" {
				t.Errorf("query = %q, want %q", query, "milk")
			}
			return []*inventory.ItemView{
				{InventoryItem: testItem("item-1", "牛乳"), DisplayStatus: model.DisplayStatusExpiring},
			}, nil
		},
	}
	h := NewItemHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/items?filter=expiring&q=milk", nil)
	w := httptest.NewRecorder()

	h.ListItems(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp itemListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
	if resp.Items[0].DisplayStatus != model.DisplayStatusExpiring {
		t.Errorf("display_status = %q, want %q", resp.Items[0].DisplayStatus, model.DisplayStatusExpiring)
	}
}

func TestItemHandler_ListItems_InvalidFilter(t *testing.T) {
	store := &mockItemStore{
		listItemsFn: func(filter, query string) ([]*inventory.ItemView, error) {
			return nil, model.NewInvalidFilterError(filter)
		},
	}
	h := NewItemHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/items?filter=rotten", nil)
	w := httptest.NewRecorder()

	h.ListItems(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["code"] != model.ErrCodeInvalidFilter {
		t.Errorf("code = %q, want %q", body["code"], model.ErrCodeInvalidFilter)
	}
}

// --- GET /api/items/:id テスト ---

func TestItemHandler_GetItem_Success(t *testing.T) {
	store := &mockItemStore{
		getItemFn: func(id string) *inventory.ItemView {
			if id != "item-1" {
				t.Errorf("id = %q, want %q", id, "item-1")
			}
			return &inventory.ItemView{InventoryItem: testItem("item-1", "牛乳"), DisplayStatus: model.DisplayStatusFresh}
		},
	}
	h := NewItemHandler(store, nil)

	req := newItemRequest(http.MethodGet, "/api/items/item-1", "item-1", nil)
	w := httptest.NewRecorder()

	h.GetItem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var view inventory.ItemView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if view.Name != "牛乳" {
		t.Errorf("name = %q, want %q", view.Name, "牛乳")
	}
}

func TestItemHandler_GetItem_NotFound(t *testing.T) {
	h := NewItemHandler(&mockItemStore{}, nil)

	req := newItemRequest(http.MethodGet, "/api/items/missing", "missing", nil)
	w := httptest.NewRecorder()

	h.GetItem(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- POST /api/items テスト ---

func TestItemHandler_AddItems_Success(t *testing.T) {
	store := &mockItemStore{
		addItemsFn: func(ctx context.Context, drafts []*model.ItemDraft) ([]*model.InventoryItem, []string, error) {
			if len(drafts) != 2 {
				t.Fatalf("drafts = %d, want 2", len(drafts))
			}
			if drafts[0].Name != "牛乳" {
				t.Errorf("name = %q, want %q", drafts[0].Name, "牛乳")
			}
			return []*model.InventoryItem{testItem("item-1", "牛乳"), testItem("item-2", "卵")},
				[]string{"賞味期限が入力されていません。期限の警告が機能しなくなります。"}, nil
		},
	}
	h := NewItemHandler(store, nil)

	body := []byte(`{"items":[{"name":"牛乳","quantity":"1"},{"name":"卵","quantity":"1"}]}`)
	req := newItemRequest(http.MethodPost, "/api/items", "", body)
	w := httptest.NewRecorder()

	h.AddItems(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp addItemsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Errorf("items = %d, want 2", len(resp.Items))
	}
	if len(resp.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(resp.Warnings))
	}
}

func TestItemHandler_AddItems_SubmissionBlocked(t *testing.T) {
	store := &mockItemStore{
		addItemsFn: func(ctx context.Context, drafts []*model.ItemDraft) ([]*model.InventoryItem, []string, error) {
			return nil, nil, model.NewSubmissionBlockedError([]string{
				"数量は1以上の整数で指定してください。",
			})
		},
	}
	h := NewItemHandler(store, nil)

	body := []byte(`{"items":[{"name":"牛乳","quantity":"-3"}]}`)
	req := newItemRequest(http.MethodPost, "/api/items", "", body)
	w := httptest.NewRecorder()

	h.AddItems(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var body2 map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body2); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body2["code"] != model.ErrCodeSubmissionBlocked {
		t.Errorf("code = %q, want %q", body2["code"], model.ErrCodeSubmissionBlocked)
	}
	warnings, ok := body2["warnings"].([]interface{})
	if !ok || len(warnings) != 1 {
		t.Errorf("warnings = %v, want 1件", body2["warnings"])
	}
}

func TestItemHandler_AddItems_InvalidJSON(t *testing.T) {
	h := NewItemHandler(&mockItemStore{}, nil)

	req := newItemRequest(http.MethodPost, "/api/items", "", []byte(`{invalid`))
	w := httptest.NewRecorder()

	h.AddItems(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestItemHandler_AddItems_EmptyBatch(t *testing.T) {
	h := NewItemHandler(&mockItemStore{}, nil)

	req := newItemRequest(http.MethodPost, "/api/items", "", []byte(`{"items":[]}`))
	w := httptest.NewRecorder()

	h.AddItems(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// --- PATCH /api/items/:id テスト ---

func TestItemHandler_UpdateItem_Success(t *testing.T) {
	store := &mockItemStore{
		updateItemFn: func(ctx context.Context, id string, update *model.ItemUpdate) (*model.InventoryItem, []string, error) {
			if id != "item-1" {
				t.Errorf("id = %q, want %q", id, "item-1")
			}
			if update.Name == nil || *update.Name != "低脂肪牛乳" {
				t.Errorf("update.Name = %v, want 低脂肪牛乳", update.Name)
			}
			if update.Quantity != nil {
				t.Errorf("update.Quantity = %v, want nil", update.Quantity)
			}
			item := testItem("item-1", "低脂肪牛乳")
			return item, nil, nil
		},
	}
	h := NewItemHandler(store, nil)

	req := newItemRequest(http.MethodPatch, "/api/items/item-1", "item-1", []byte(`{"name":"低脂肪牛乳"}`))
	w := httptest.NewRecorder()

	h.UpdateItem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp updateItemResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Item.Name != "低脂肪牛乳" {
		t.Errorf("name = %q, want %q", resp.Item.Name, "低脂肪牛乳")
	}
}

func TestItemHandler_UpdateItem_NotEditable(t *testing.T) {
	store := &mockItemStore{
		updateItemFn: func(ctx context.Context, id string, update *model.ItemUpdate) (*model.InventoryItem, []string, error) {
			return nil, nil, model.NewItemNotEditableError(id, model.ItemStatusFinished)
		},
	}
	h := NewItemHandler(store, nil)

	req := newItemRequest(http.MethodPatch, "/api/items/item-1", "item-1", []byte(`{"name":"変更"}`))
	w := httptest.NewRecorder()

	h.UpdateItem(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

// --- 状態遷移テスト ---

func TestItemHandler_MarkFinished_Success(t *testing.T) {
	finished := testItem("item-1", "牛乳")
	finished.Status = model.ItemStatusFinished
	store := &mockItemStore{
		markFinishedFn: func(ctx context.Context, id string) (*model.InventoryItem, error) {
			return finished, nil
		},
		getItemFn: func(id string) *inventory.ItemView {
			return &inventory.ItemView{InventoryItem: finished, DisplayStatus: model.DisplayStatusFinished}
		},
	}
	h := NewItemHandler(store, nil)

	req := newItemRequest(http.MethodPost, "/api/items/item-1/finish", "item-1", nil)
	w := httptest.NewRecorder()

	h.MarkFinished(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var view inventory.ItemView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if view.Status != model.ItemStatusFinished {
		t.Errorf("status = %q, want %q", view.Status, model.ItemStatusFinished)
	}
	if view.DisplayStatus != model.DisplayStatusFinished {
		t.Errorf("display_status = %q, want %q", view.DisplayStatus, model.DisplayStatusFinished)
	}
}

// TestItemHandler_MarkFinished_MissingID は存在しないIDへの遷移が黙って無視されることを検証する。
func TestItemHandler_MarkFinished_MissingID(t *testing.T) {
	h := NewItemHandler(&mockItemStore{}, nil)

	req := newItemRequest(http.MethodPost, "/api/items/missing/finish", "missing", nil)
	w := httptest.NewRecorder()

	h.MarkFinished(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestItemHandler_MarkSpoiled_Success(t *testing.T) {
	spoiled := testItem("item-1", "ほうれん草")
	spoiled.Status = model.ItemStatusSpoiled
	var called bool
	store := &mockItemStore{
		markSpoiledFn: func(ctx context.Context, id string) (*model.InventoryItem, error) {
			called = true
			return spoiled, nil
		},
		getItemFn: func(id string) *inventory.ItemView {
			return &inventory.ItemView{InventoryItem: spoiled, DisplayStatus: model.DisplayStatusSpoiled}
		},
	}
	h := NewItemHandler(store, nil)

	req := newItemRequest(http.MethodPost, "/api/items/item-1/spoil", "item-1", nil)
	w := httptest.NewRecorder()

	h.MarkSpoiled(w, req)

	if !called {
		t.Error("MarkSpoiledが呼ばれていない")
	}
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// --- 削除テスト ---

func TestItemHandler_DeleteItem_Success(t *testing.T) {
	var deletedID string
	store := &mockItemStore{
		deleteItemFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	h := NewItemHandler(store, nil)

	req := newItemRequest(http.MethodDelete, "/api/items/item-1", "item-1", nil)
	w := httptest.NewRecorder()

	h.DeleteItem(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if deletedID != "item-1" {
		t.Errorf("deletedID = %q, want %q", deletedID, "item-1")
	}
}

func TestItemHandler_DeleteItem_NotFound(t *testing.T) {
	store := &mockItemStore{
		deleteItemFn: func(ctx context.Context, id string) error {
			return model.NewItemNotFoundError(id)
		},
	}
	h := NewItemHandler(store, nil)

	req := newItemRequest(http.MethodDelete, "/api/items/missing", "missing", nil)
	w := httptest.NewRecorder()

	h.DeleteItem(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestItemHandler_ClearAll_Success(t *testing.T) {
	var cleared bool
	store := &mockItemStore{
		clearAllFn: func(ctx context.Context) error {
			cleared = true
			return nil
		},
	}
	h := NewItemHandler(store, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/state", nil)
	w := httptest.NewRecorder()

	h.ClearAll(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if !cleared {
		t.Error("ClearAllが呼ばれていない")
	}
}
