// Package inventory は在庫ストア（アイテムと買い物ランの単一の信頼できる情報源）を提供する。
//
// Storeはプロセス起動時に1回構築して各ハンドラーへ注入する明示的な状態コンテナであり、
// パッケージレベルのシングルトンは持たない（テストごとに新規インスタンスで分離できる）。
// すべての書き込みはStoreのミューテーター経由で行われ、変更のたびに
// ドキュメント全体が永続化層へ書き直される。
package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/repository"
)

// TextSanitizer は自由記述フィールドのサニタイズのインターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// Store は在庫アイテムと買い物ランのインメモリ・永続化コレクション。
// chiのハンドラーは並行に実行されるため、全操作をミューテックスで直列化する。
// 永続化は単一ドキュメントの全書き換えのみで、部分書き込みは行わない。
type Store struct {
	mu        sync.Mutex
	repo      repository.StateRepository
	sanitizer TextSanitizer

	items []*model.InventoryItem
	runs  []*model.GroceryRun

	// nowFn / idFn はテストで差し替えるためのフック。
	nowFn func() time.Time
	idFn  func() string
}

// NewStore はStoreを生成し、永続化済みドキュメントを読み込む。
// ストレージキーが存在しない場合は空の状態から開始する。
func NewStore(ctx context.Context, repo repository.StateRepository, sanitizer TextSanitizer) (*Store, error) {
	doc, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("在庫ストアの初期化に失敗しました: %w", err)
	}

	return &Store{
		repo:      repo,
		sanitizer: sanitizer,
		items:     doc.Items,
		runs:      doc.Runs,
		nowFn:     time.Now,
		idFn:      uuid.NewString,
	}, nil
}

// persistLocked は現在の状態をドキュメントとして書き込む。
// 呼び出し側がロックを保持していること。
func (s *Store) persistLocked(ctx context.Context) error {
	doc := &model.StoreDocument{
		SchemaVersion: model.CurrentSchemaVersion,
		Items:         s.items,
		Runs:          s.runs,
	}
	return s.repo.Save(ctx, doc)
}

// stampDrafts は下書きを検証し、在庫アイテムへ変換する。
// 全下書きの警告を集約し、1件でもブロック対象の違反があれば
// SubmissionBlockedErrorを返す（アイテムは一切作成しない）。
// 呼び出し側がロックを保持していること。
func (s *Store) stampDrafts(drafts []*model.ItemDraft) ([]*model.InventoryItem, []string, error) {
	if len(drafts) == 0 {
		return nil, nil, model.NewInvalidRequestError("登録するアイテムが指定されていません。")
	}

	today := model.CivilDateOf(s.nowFn())

	var warnings []string
	blocked := false
	for _, d := range drafts {
		result := ValidateDraft(d, today)
		warnings = append(warnings, result.Warnings...)
		if result.Blocked {
			blocked = true
		}
	}
	if blocked {
		return nil, nil, model.NewSubmissionBlockedError(warnings)
	}

	// ID採番と衝突チェック
	existing := make(map[string]bool, len(s.items))
	for _, item := range s.items {
		existing[item.ID] = true
	}

	now := s.nowFn()
	stamped := make([]*model.InventoryItem, 0, len(drafts))
	for _, d := range drafts {
		id := d.ID
		if id == "" {
			id = s.idFn()
		}
		if existing[id] {
			return nil, nil, model.NewInvalidRequestError(
				fmt.Sprintf("アイテムIDが重複しています: %s", id))
		}
		existing[id] = true

		item := &model.InventoryItem{
			ID:             id,
			Name:           s.sanitizer.Sanitize(d.Name),
			Brand:          s.sanitizer.Sanitize(d.Brand),
			Barcode:        d.Barcode,
			ProduceType:    d.ProduceType,
			Category:       d.Category,
			Storage:        d.Storage,
			Quantity:       d.Quantity,
			Unit:           d.Unit,
			Size:           d.Size,
			SizeUnit:       d.SizeUnit,
			BestBeforeDate: d.BestBeforeDate,
			PurchaseDate:   d.PurchaseDate,
			ShelfLifeDays:  d.ShelfLifeDays,
			Notes:          s.sanitizer.Sanitize(d.Notes),
			Status:         model.ItemStatusActive,
			AddedAt:        now,
		}
		if item.Unit == "" {
			item.Unit = model.DefaultUnit
		}
		if item.Quantity == "" {
			item.Quantity = "1"
		}
		stamped = append(stamped, item)
	}

	return stamped, warnings, nil
}

// AddItems は下書きを在庫に追加する。
// 各アイテムにstatus=activeと現在時刻のタイムスタンプを付与する。
// 戻り値の警告は助言レベル（登録自体は成功している）。
func (s *Store) AddItems(ctx context.Context, drafts []*model.ItemDraft) ([]*model.InventoryItem, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamped, warnings, err := s.stampDrafts(drafts)
	if err != nil {
		return nil, nil, err
	}

	next := append(append([]*model.InventoryItem{}, s.items...), stamped...)

	prev := s.items
	s.items = next
	if err := s.persistLocked(ctx); err != nil {
		s.items = prev
		return nil, nil, err
	}

	return stamped, warnings, nil
}

// AddRun はAddItemsに加えて、新規アイテム群を参照する買い物ランを1件作成する。
// ランのメンバー一覧は同一バッチで作成されたアイテムのIDのみを含み、
// 作成後は変更されない。
func (s *Store) AddRun(ctx context.Context, storeName, date string, drafts []*model.ItemDraft) (*model.GroceryRun, []*model.InventoryItem, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date != "" {
		if _, err := model.ParseCivilDate(date); err != nil {
			return nil, nil, nil, model.NewInvalidRequestError(
				fmt.Sprintf("買い物ランの日付が不正です: %s", date))
		}
	}

	stamped, warnings, err := s.stampDrafts(drafts)
	if err != nil {
		return nil, nil, nil, err
	}

	itemIDs := make([]string, len(stamped))
	for i, item := range stamped {
		itemIDs[i] = item.ID
	}

	run := &model.GroceryRun{
		ID:        s.idFn(),
		StoreName: s.sanitizer.Sanitize(storeName),
		Date:      date,
		ItemIDs:   itemIDs,
		CreatedAt: s.nowFn(),
	}

	prevItems, prevRuns := s.items, s.runs
	s.items = append(append([]*model.InventoryItem{}, s.items...), stamped...)
	s.runs = append([]*model.GroceryRun{run}, s.runs...)
	if err := s.persistLocked(ctx); err != nil {
		s.items, s.runs = prevItems, prevRuns
		return nil, nil, nil, err
	}

	return run, stamped, warnings, nil
}

// markStatus はアイテムを終端状態へ遷移させる。
// 存在しないIDはサイレントに無視する（冪等性のための安全策）。
// すでに同じ終端状態の場合は何もしない。
// 別の終端状態からの横断遷移（finished→spoiled等）も無視する:
// 終端状態は不変であり、上書きは許可しない。
func (s *Store) markStatus(ctx context.Context, id string, status model.ItemStatus) (*model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		if item.Status == status {
			return item, nil // すでに目的の状態: no-op
		}
		if item.Status.IsTerminal() {
			return item, nil // 終端状態の横断は無視
		}

		updated := *item
		updated.Status = status

		prev := s.items
		next := append([]*model.InventoryItem{}, s.items...)
		next[i] = &updated
		s.items = next
		if err := s.persistLocked(ctx); err != nil {
			s.items = prev
			return nil, err
		}
		return &updated, nil
	}

	return nil, nil // 存在しないID: no-op
}

// MarkFinished はアイテムを使い切り状態にする。
func (s *Store) MarkFinished(ctx context.Context, id string) (*model.InventoryItem, error) {
	return s.markStatus(ctx, id, model.ItemStatusFinished)
}

// MarkSpoiled はアイテムを廃棄状態にする。
func (s *Store) MarkSpoiled(ctx context.Context, id string) (*model.InventoryItem, error) {
	return s.markStatus(ctx, id, model.ItemStatusSpoiled)
}

// UpdateItem はアイテムへ部分編集をマージする。
// ID・Status・AddedAtはこの経路では変更できない（ItemUpdateが持たない）。
// 存在しないIDは明示的なエラーを返す: 編集呼び出しは対象の存在を前提とするため。
// 編集できるのはactiveなアイテムのみ。
func (s *Store) UpdateItem(ctx context.Context, id string, update *model.ItemUpdate) (*model.InventoryItem, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		if item.Status != model.ItemStatusActive {
			return nil, nil, model.NewItemNotEditableError(id, item.Status)
		}

		merged := *item
		applyUpdate(&merged, update, s.sanitizer)

		// マージ結果を下書きとみなして再検証する
		today := model.CivilDateOf(s.nowFn())
		result := ValidateDraft(draftOf(&merged), today)
		if result.Blocked {
			return nil, nil, model.NewSubmissionBlockedError(result.Warnings)
		}

		prev := s.items
		next := append([]*model.InventoryItem{}, s.items...)
		next[i] = &merged
		s.items = next
		if err := s.persistLocked(ctx); err != nil {
			s.items = prev
			return nil, nil, err
		}
		return &merged, result.Warnings, nil
	}

	return nil, nil, model.NewItemNotFoundError(id)
}

// DeleteItem はアイテムをストアから物理削除する。
// ライフサイクル遷移ではなく、明示的なユーザー操作としての削除。
// ランのメンバー一覧は参照のみのため書き換えない。
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != id {
			continue
		}

		prev := s.items
		next := append([]*model.InventoryItem{}, s.items[:i]...)
		next = append(next, s.items[i+1:]...)
		s.items = next
		if err := s.persistLocked(ctx); err != nil {
			s.items = prev
			return err
		}
		return nil
	}

	return model.NewItemNotFoundError(id)
}

// DeleteRun は買い物ランを削除する。メンバーのアイテムは独立して存続する。
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, run := range s.runs {
		if run.ID != id {
			continue
		}

		prev := s.runs
		next := append([]*model.GroceryRun{}, s.runs[:i]...)
		next = append(next, s.runs[i+1:]...)
		s.runs = next
		if err := s.persistLocked(ctx); err != nil {
			s.runs = prev
			return err
		}
		return nil
	}

	return model.NewRunNotFoundError(id)
}

// ClearAll は両コレクションを空にする。破壊的操作。
// 確認はUIレイヤーの責務であり、この層では行わない。
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevItems, prevRuns := s.items, s.runs
	s.items = []*model.InventoryItem{}
	s.runs = []*model.GroceryRun{}
	if err := s.persistLocked(ctx); err != nil {
		s.items, s.runs = prevItems, prevRuns
		return err
	}
	return nil
}

// applyUpdate はnil以外のフィールドをitemへマージする。
func applyUpdate(item *model.InventoryItem, u *model.ItemUpdate, sanitizer TextSanitizer) {
	if u.Name != nil {
		item.Name = sanitizer.Sanitize(*u.Name)
	}
	if u.Brand != nil {
		item.Brand = sanitizer.Sanitize(*u.Brand)
	}
	if u.Barcode != nil {
		item.Barcode = *u.Barcode
	}
	if u.ProduceType != nil {
		item.ProduceType = *u.ProduceType
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Storage != nil {
		item.Storage = *u.Storage
	}
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.Unit != nil {
		item.Unit = *u.Unit
	}
	if u.Size != nil {
		item.Size = *u.Size
	}
	if u.SizeUnit != nil {
		item.SizeUnit = *u.SizeUnit
	}
	if u.BestBeforeDate != nil {
		item.BestBeforeDate = *u.BestBeforeDate
	}
	if u.PurchaseDate != nil {
		item.PurchaseDate = *u.PurchaseDate
	}
	if u.ShelfLifeDays != nil {
		item.ShelfLifeDays = *u.ShelfLifeDays
	}
	if u.Notes != nil {
		item.Notes = sanitizer.Sanitize(*u.Notes)
	}
}

// draftOf はアイテムを検証用の下書き表現へ変換する。
func draftOf(item *model.InventoryItem) *model.ItemDraft {
	return &model.ItemDraft{
		ID:             item.ID,
		Name:           item.Name,
		Brand:          item.Brand,
		Barcode:        item.Barcode,
		ProduceType:    item.ProduceType,
		Category:       item.Category,
		Storage:        item.Storage,
		Quantity:       item.Quantity,
		Unit:           item.Unit,
		Size:           item.Size,
		SizeUnit:       item.SizeUnit,
		BestBeforeDate: item.BestBeforeDate,
		PurchaseDate:   item.PurchaseDate,
		ShelfLifeDays:  item.ShelfLifeDays,
		Notes:          item.Notes,
	}
}
