package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。Warningsは登録ブロック時のみ設定される。
type ErrorResponseBody struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Category string   `json:"category"`
	Action   string   `json:"action"`
	Warnings []string `json:"warnings,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteAPIError はドメインエラーをHTTPステータスへ対応付けて書き込む。
// エラーコードとHTTPステータスの対応はここで一元管理する。
func WriteAPIError(w http.ResponseWriter, err error) {
	var blocked *model.SubmissionBlockedError
	if errors.As(err, &blocked) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ErrorResponseBody{
			Code:     blocked.Code,
			Message:  blocked.Message,
			Category: blocked.Category,
			Action:   blocked.Action,
			Warnings: blocked.Warnings,
		})
		return
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		WriteInternalServerError(w)
		return
	}

	status := http.StatusInternalServerError
	switch apiErr.Code {
	case model.ErrCodeItemNotFound, model.ErrCodeRunNotFound, model.ErrCodeProductNotFound:
		status = http.StatusNotFound
	case model.ErrCodeInvalidBarcode, model.ErrCodeInvalidFilter, model.ErrCodeInvalidRequest:
		status = http.StatusBadRequest
	case model.ErrCodeItemNotEditable:
		status = http.StatusConflict
	case model.ErrCodeSubmissionBlocked:
		status = http.StatusUnprocessableEntity
	case model.ErrCodeLookupFailed:
		status = http.StatusBadGateway
	}
	WriteErrorResponse(w, status, apiErr)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
