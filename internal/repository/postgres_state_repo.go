package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// PostgresStateRepo はPostgreSQLを使用した在庫ストアリポジトリ。
// inventory_documentsテーブルの1行（key = inventory_store）に
// ドキュメント全体をJSONBとして保存する。
type PostgresStateRepo struct {
	db *sql.DB
}

// NewPostgresStateRepo はPostgresStateRepoを生成する。
func NewPostgresStateRepo(db *sql.DB) *PostgresStateRepo {
	return &PostgresStateRepo{db: db}
}

// Load は永続化されたドキュメントを読み込む。
// 行が存在しない場合は空の初期状態を返す（初回起動時の正常パス）。
func (r *PostgresStateRepo) Load(ctx context.Context) (*model.StoreDocument, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM inventory_documents WHERE key = $1`,
		storeKey,
	).Scan(&raw)

	if err == sql.ErrNoRows {
		return model.NewEmptyDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("在庫ドキュメントの読み込みに失敗しました: %w", err)
	}

	return decodeDocument(raw)
}

// Save はドキュメント全体をUPSERTで書き込む。
func (r *PostgresStateRepo) Save(ctx context.Context, doc *model.StoreDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("在庫ドキュメントのシリアライズに失敗しました: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO inventory_documents (key, document, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET document = $2, updated_at = now()`,
		storeKey, raw,
	)
	if err != nil {
		return fmt.Errorf("在庫ドキュメントの書き込みに失敗しました: %w", err)
	}

	return nil
}

// decodeDocument はJSONバイト列をデコードし、スキーマバージョンを検証する。
// バージョンタグのないドキュメント（初期フォーマット）はバージョン1として扱う。
// 将来バージョンのドキュメントは読み込まずエラーを返す。
func decodeDocument(raw []byte) (*model.StoreDocument, error) {
	doc := &model.StoreDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("在庫ドキュメントのパースに失敗しました: %w", err)
	}

	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = 1
	}
	if doc.SchemaVersion > model.CurrentSchemaVersion {
		return nil, fmt.Errorf("未対応のスキーマバージョンです: %d（対応バージョン: %d以下）",
			doc.SchemaVersion, model.CurrentSchemaVersion)
	}

	// ここに将来のバージョンアップ時のマイグレーション処理を追加する
	// （doc.SchemaVersion < CurrentSchemaVersion の場合に順次変換して
	// CurrentSchemaVersionまで引き上げる）。

	if doc.Items == nil {
		doc.Items = []*model.InventoryItem{}
	}
	if doc.Runs == nil {
		doc.Runs = []*model.GroceryRun{}
	}

	return doc, nil
}
