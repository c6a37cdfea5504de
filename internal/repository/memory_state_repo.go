package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// MemoryStateRepo はメモリ上で動作する在庫ストアリポジトリ。
// テストでの分離実行用。Postgres実装と同じくドキュメント全体を
// JSONとしてシリアライズして保持するため、永続化往復の
// フィールド一致検証にも使用できる。
type MemoryStateRepo struct {
	mu  sync.Mutex
	raw []byte // nilの場合はキー不在（空の初期状態）を表す

	// SaveCount はSaveが呼ばれた回数。ミューテーションごとの
	// 書き直しを検証するテスト用。
	SaveCount int

	// FailSave がtrueの場合、Saveはエラーを返す。
	FailSave bool
}

// NewMemoryStateRepo はMemoryStateRepoを生成する。
func NewMemoryStateRepo() *MemoryStateRepo {
	return &MemoryStateRepo{}
}

// Load は保持中のドキュメントを読み込む。未保存の場合は空の初期状態を返す。
func (r *MemoryStateRepo) Load(ctx context.Context) (*model.StoreDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.raw == nil {
		return model.NewEmptyDocument(), nil
	}
	return decodeDocument(r.raw)
}

// Save はドキュメント全体をシリアライズして保持する。
func (r *MemoryStateRepo) Save(ctx context.Context, doc *model.StoreDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSave {
		return fmt.Errorf("在庫ドキュメントの書き込みに失敗しました: simulated failure")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("在庫ドキュメントのシリアライズに失敗しました: %w", err)
	}
	r.raw = raw
	r.SaveCount++
	return nil
}
