// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, lookup, state, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeItemNotFound      = "ITEM_NOT_FOUND"
	ErrCodeItemNotEditable   = "ITEM_NOT_EDITABLE"
	ErrCodeRunNotFound       = "RUN_NOT_FOUND"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeLookupFailed      = "LOOKUP_FAILED"
	ErrCodeInvalidBarcode    = "INVALID_BARCODE"
	ErrCodeInvalidFilter     = "INVALID_FILTER"
	ErrCodeSubmissionBlocked = "SUBMISSION_BLOCKED"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
)

// NewItemNotFoundError はアイテム未検出エラーを生成する。
// 編集系の呼び出しで、存在しないIDを指定した場合に使用する。
func NewItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeItemNotFound,
		Message:  fmt.Sprintf("指定されたアイテムが見つかりません: %s", itemID),
		Category: "state",
		Action:   "アイテムIDを確認してください。",
	}
}

// NewItemNotEditableError は終端状態のアイテムを編集しようとした場合のエラーを生成する。
func NewItemNotEditableError(itemID string, status ItemStatus) *APIError {
	return &APIError{
		Code:     ErrCodeItemNotEditable,
		Message:  fmt.Sprintf("このアイテムは編集できません（状態: %s）: %s", status, itemID),
		Category: "state",
		Action:   "編集できるのは在庫中（active）のアイテムのみです。",
	}
}

// NewRunNotFoundError は買い物ラン未検出エラーを生成する。
func NewRunNotFoundError(runID string) *APIError {
	return &APIError{
		Code:     ErrCodeRunNotFound,
		Message:  fmt.Sprintf("指定された買い物ランが見つかりません: %s", runID),
		Category: "state",
		Action:   "ランIDを確認してください。",
	}
}

// NewProductNotFoundError は商品データベースに該当レコードがない場合のエラーを生成する。
// 正常な終端結果であり、呼び出し側は手入力へフォールバックする。
func NewProductNotFoundError(barcode string) *APIError {
	return &APIError{
		Code:     ErrCodeProductNotFound,
		Message:  fmt.Sprintf("バーコードに該当する商品が見つかりませんでした: %s", barcode),
		Category: "lookup",
		Action:   "商品情報を手入力してください。",
	}
}

// NewLookupFailedError はルックアップの通信・パース失敗エラーを生成する。
func NewLookupFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeLookupFailed,
		Message:  fmt.Sprintf("商品情報の取得に失敗しました: %s", reason),
		Category: "lookup",
		Action:   "しばらく待ってから再試行するか、商品情報を手入力してください。",
	}
}

// NewInvalidBarcodeError は数字以外を含むバーコードエラーを生成する。
func NewInvalidBarcodeError(barcode string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBarcode,
		Message:  fmt.Sprintf("無効なバーコードです: %s", barcode),
		Category: "validation",
		Action:   "バーコードは数字のみで指定してください。",
	}
}

// NewInvalidFilterError は無効なフィルタエラーを生成する。
func NewInvalidFilterError(filter string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFilter,
		Message:  fmt.Sprintf("無効なフィルタです: %s", filter),
		Category: "validation",
		Action:   "フィルタには all、fresh、expiring、expired、finished、spoiled のいずれかを指定してください。",
	}
}

// NewSubmissionBlockedError は整合性違反により登録がブロックされた場合のエラーを生成する。
// Warningsには該当submit試行で検出された全警告を含む。
func NewSubmissionBlockedError(warnings []string) *SubmissionBlockedError {
	return &SubmissionBlockedError{
		APIError: APIError{
			Code:     ErrCodeSubmissionBlocked,
			Message:  "入力内容に問題があるため登録できません。",
			Category: "validation",
			Action:   "警告内容を確認して入力を修正してください。",
		},
		Warnings: warnings,
	}
}

// SubmissionBlockedError は登録ブロックエラー。警告一覧を併せて保持する。
type SubmissionBlockedError struct {
	APIError
	Warnings []string
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  message,
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}
