// Package model はドメインモデルを定義する。
package model

// CurrentSchemaVersion は永続化ドキュメントの現在のスキーマバージョン。
// バージョンタグのないドキュメント（初期フォーマット）はバージョン1として扱う。
const CurrentSchemaVersion = 1

// StoreDocument は在庫ストア全体の永続化フォーマットを表す。
// 単一の耐久ストレージキーの下に1ドキュメントとしてシリアライズされ、
// 変更のたびに全体が書き直される。部分永続化は行わない。
type StoreDocument struct {
	SchemaVersion int              `json:"schema_version"`
	Items         []*InventoryItem `json:"items"`
	Runs          []*GroceryRun    `json:"runs"`
}

// NewEmptyDocument は空の初期状態のドキュメントを生成する。
// ストレージキーが存在しない場合はエラーではなくこの状態として扱う。
func NewEmptyDocument() *StoreDocument {
	return &StoreDocument{
		SchemaVersion: CurrentSchemaVersion,
		Items:         []*InventoryItem{},
		Runs:          []*GroceryRun{},
	}
}
