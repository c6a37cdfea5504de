// Package model はドメインモデルを定義する。
package model

// ItemDraft は在庫に登録する前のアイテム下書きを表す。
// フォーム入力またはバーコード解決結果から構築され、
// コミット境界（AddItems / AddRun）でのみ永続エンティティへ変換される。
// 途中編集が永続状態へ漏れることはない。
type ItemDraft struct {
	ID             string          `json:"id,omitempty"` // 未指定の場合はストアが採番する
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Barcode        string          `json:"barcode"`
	ProduceType    ProduceType     `json:"produce_type"`
	Category       Category        `json:"category"`
	Storage        StorageLocation `json:"storage"`
	Quantity       string          `json:"quantity"`
	Unit           string          `json:"unit"`
	Size           string          `json:"size"`
	SizeUnit       string          `json:"size_unit"`
	BestBeforeDate string          `json:"best_before_date"`
	PurchaseDate   string          `json:"purchase_date"`
	ShelfLifeDays  string          `json:"shelf_life_days"`
	Notes          string          `json:"notes"`
}

// ResolvedProduct はバーコード解決の出力（取得レコードの純粋な変換結果）を表す。
// 導出できなかったフィールドは空のまま残す: 呼び出し側は既定値を維持し、
// 解決が「未設定より悪い推測」を強制することはない。
// 1回のルックアップごとに新規生成され、永続化されない。
type ResolvedProduct struct {
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name,omitempty"`
	Brand        string          `json:"brand,omitempty"`
	Category     Category        `json:"category,omitempty"`
	Storage      StorageLocation `json:"storage,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Size         string          `json:"size,omitempty"`
	SizeUnit     string          `json:"size_unit,omitempty"`
	Quantity     string          `json:"quantity,omitempty"`
	PurchaseDate string          `json:"purchase_date,omitempty"`
}

// ItemUpdate はアイテムの部分更新を表す。nilフィールドは変更しない。
// ID・Status・AddedAtはこの経路では変更できない。
type ItemUpdate struct {
	Name           *string          `json:"name,omitempty"`
	Brand          *string          `json:"brand,omitempty"`
	Barcode        *string          `json:"barcode,omitempty"`
	ProduceType    *ProduceType     `json:"produce_type,omitempty"`
	Category       *Category        `json:"category,omitempty"`
	Storage        *StorageLocation `json:"storage,omitempty"`
	Quantity       *string          `json:"quantity,omitempty"`
	Unit           *string          `json:"unit,omitempty"`
	Size           *string          `json:"size,omitempty"`
	SizeUnit       *string          `json:"size_unit,omitempty"`
	BestBeforeDate *string          `json:"best_before_date,omitempty"`
	PurchaseDate   *string          `json:"purchase_date,omitempty"`
	ShelfLifeDays  *string          `json:"shelf_life_days,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}
