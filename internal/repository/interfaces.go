// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// storeKey は在庫ドキュメントの固定ストレージキー。
const storeKey = "inventory_store"

// StateRepository は在庫ストア全体（アイテム＋買い物ラン）の永続化インターフェース。
// ストア状態は単一の耐久ストレージキーの下に1ドキュメントとして保存され、
// 変更のたびに全体が書き直される。部分永続化・増分永続化は行わない。
type StateRepository interface {
	// Load は永続化されたドキュメントを読み込む。
	// キーが存在しない場合はエラーではなく空の初期状態を返す。
	// バージョンタグのないドキュメントはバージョン1として扱い、
	// 既知より新しいスキーマバージョンはエラーを返す。
	Load(ctx context.Context) (*model.StoreDocument, error)

	// Save はドキュメント全体を書き込む（UPSERT）。
	// 同時複数プロセスアクセスは想定しない: 最後の書き込みが勝つ。
	Save(ctx context.Context, doc *model.StoreDocument) error
}
