// Package model はドメインモデルを定義する。
package model

// DisplayStatus は在庫一覧・ダッシュボードに表示する導出ステータスを表す。
// ライフサイクル状態と賞味期限から読み取りのたびに導出され、保存されない。
type DisplayStatus string

const (
	// DisplayStatusFresh は賞味期限に余裕があるアイテムを表す。
	DisplayStatusFresh DisplayStatus = "fresh"
	// DisplayStatusExpiring は賞味期限が3日以内に迫っているアイテムを表す。
	DisplayStatusExpiring DisplayStatus = "expiring"
	// DisplayStatusExpired は賞味期限を過ぎたアイテムを表す。
	DisplayStatusExpired DisplayStatus = "expired"
	// DisplayStatusSpoiled は傷んで廃棄したアイテムを表す。
	DisplayStatusSpoiled DisplayStatus = "spoiled"
	// DisplayStatusFinished は使い切ったアイテムを表す。
	DisplayStatusFinished DisplayStatus = "finished"
)

// expiringWindowDays は「期限間近」と判定する残日数（当日含む3日以内）。
const expiringWindowDays = 3

// DeriveDisplayStatus はアイテムの表示ステータスを導出する純粋関数。
// 評価順序:
//  1. ライフサイクル状態がfinished → finished
//  2. ライフサイクル状態がspoiled → spoiled
//  3. 賞味期限未設定 → fresh
//  4. 賞味期限 < today → expired
//  5. 賞味期限 <= today+3日 → expiring
//  6. それ以外 → fresh
//
// 賞味期限はローカル暦日として成分ごとにパースし、todayのローカル深夜0時と
// 比較する。パース不能な日付は未設定として扱う。
func DeriveDisplayStatus(item *InventoryItem, today CivilDate) DisplayStatus {
	if item.Status == ItemStatusFinished {
		return DisplayStatusFinished
	}
	if item.Status == ItemStatusSpoiled {
		return DisplayStatusSpoiled
	}
	if item.BestBeforeDate == "" {
		return DisplayStatusFresh
	}

	expiry, err := ParseCivilDate(item.BestBeforeDate)
	if err != nil {
		return DisplayStatusFresh
	}

	if expiry.Before(today) {
		return DisplayStatusExpired
	}
	if !expiry.After(today.AddDays(expiringWindowDays)) {
		return DisplayStatusExpiring
	}
	return DisplayStatusFresh
}
