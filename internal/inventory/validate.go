package inventory

import (
	"strconv"
	"strings"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// 検証警告メッセージ。テストとUIが文言を共有するため固定文字列として公開する。
const (
	WarnNameMissing          = "名前が入力されていません。"
	WarnBestBeforeMissing    = "賞味期限が入力されていません。期限の警告が機能しなくなります。"
	WarnQuantityInvalid      = "数量は1以上の整数で指定してください。"
	WarnBestBeforeUnparsable = "賞味期限の形式が不正です（YYYY-MM-DD）。"
	WarnPurchaseUnparsable   = "購入日の形式が不正です（YYYY-MM-DD）。"
	WarnBestBeforeBeforeBuy  = "賞味期限が購入日より前になっています。両方の日付を確認してください。"
	WarnAlreadyExpired       = "賞味期限がすでに過ぎています。"
	WarnFarFutureDate        = "賞味期限が2年以上先になっています。入力ミスでないか確認してください。"
	WarnCategoryUnknown      = "カテゴリが選択肢の一覧にありません。"
	WarnStorageUnknown       = "保管場所が選択肢の一覧にありません。"
	WarnProduceTypeUnknown   = "生鮮品種別が選択肢の一覧にありません。"
	WarnUnitUnknown          = "パッケージ単位が選択肢の一覧にありません。"
	WarnSizeUnitUnknown      = "内容量単位が選択肢の一覧にありません。"
)

// farFutureYears を超える先の賞味期限は入力ミスの可能性が高いとみなす。
const farFutureYears = 2

// ValidationResult は下書き1件の検証結果を表す。
// Blockedがtrueの場合、警告のいずれかが整合性違反（登録不可）。
// falseの場合、Warningsはすべて助言レベルであり登録は許可される。
type ValidationResult struct {
	Warnings []string
	Blocked  bool
}

// ValidateDraft は下書きの整合性を検証する。
//
// 登録をブロックするのは2つの整合性違反のみ:
//   - 数量が1以上の整数でない
//   - 賞味期限が購入日より前
//
// それ以外はすべて助言レベル（警告を出すが登録は許可する）:
//   - 名前または賞味期限の欠落
//   - 日付の形式不正（比較できないため整合性チェックはスキップされる）
//   - 賞味期限がすでに過ぎている（値引き品の登録は正当なユースケース）
//   - 賞味期限が2年以上先
//   - カテゴリ・保管場所・生鮮品種別・各単位が列挙セットに含まれない
//
// 検証は毎回全フィールドを見直すため、入力を修正すれば過去の警告は残らない。
func ValidateDraft(d *model.ItemDraft, today model.CivilDate) ValidationResult {
	var result ValidationResult

	block := func(msg string) {
		result.Warnings = append(result.Warnings, msg)
		result.Blocked = true
	}
	advise := func(msg string) {
		result.Warnings = append(result.Warnings, msg)
	}

	if strings.TrimSpace(d.Name) == "" {
		advise(WarnNameMissing)
	}

	// 列挙フィールドの所属チェック。空は「未選択」として許容する。
	if d.Category != "" && !d.Category.Valid() {
		advise(WarnCategoryUnknown)
	}
	if d.Storage != "" && !d.Storage.Valid() {
		advise(WarnStorageUnknown)
	}
	if d.ProduceType != "" && !d.ProduceType.Valid() {
		advise(WarnProduceTypeUnknown)
	}
	if u := strings.TrimSpace(d.Unit); u != "" && !model.ValidPackageUnit(u) {
		advise(WarnUnitUnknown)
	}
	if u := strings.TrimSpace(d.SizeUnit); u != "" && !model.ValidSizeUnit(u) {
		advise(WarnSizeUnitUnknown)
	}

	if q := strings.TrimSpace(d.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			block(WarnQuantityInvalid)
		}
	}

	bestBefore := strings.TrimSpace(d.BestBeforeDate)
	if bestBefore == "" {
		advise(WarnBestBeforeMissing)
		return result
	}

	expiry, err := model.ParseCivilDate(bestBefore)
	if err != nil {
		advise(WarnBestBeforeUnparsable)
		return result
	}

	if purchase := strings.TrimSpace(d.PurchaseDate); purchase != "" {
		bought, err := model.ParseCivilDate(purchase)
		if err != nil {
			advise(WarnPurchaseUnparsable)
		} else if expiry.Before(bought) {
			block(WarnBestBeforeBeforeBuy)
		}
	}

	if expiry.Before(today) {
		advise(WarnAlreadyExpired)
	}

	farFuture := model.CivilDate{Year: today.Year + farFutureYears, Month: today.Month, Day: today.Day}
	if expiry.After(farFuture) {
		advise(WarnFarFutureDate)
	}

	return result
}
