package model

import (
	"testing"
	"time"
)

// fixedToday はテスト用の固定「今日」。
var fixedToday = CivilDate{Year: 2026, Month: time.February, Day: 15}

func TestDeriveDisplayStatus_LifecyclePrecedence(t *testing.T) {
	// ライフサイクル状態は賞味期限より優先される
	tests := []struct {
		name   string
		status ItemStatus
		date   string
		want   DisplayStatus
	}{
		{"finishedは期限切れ日付でもfinished", ItemStatusFinished, "2020-01-01", DisplayStatusFinished},
		{"spoiledは未来日付でもspoiled", ItemStatusSpoiled, "2030-01-01", DisplayStatusSpoiled},
		{"finishedは日付未設定でもfinished", ItemStatusFinished, "", DisplayStatusFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{Status: tt.status, BestBeforeDate: tt.date}
			got := DeriveDisplayStatus(item, fixedToday)
			if got != tt.want {
				t.Errorf("DeriveDisplayStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveDisplayStatus_DateBoundaries(t *testing.T) {
	tests := []struct {
		name string
		date string
		want DisplayStatus
	}{
		{"日付未設定はfresh", "", DisplayStatusFresh},
		{"1日前はexpired", "2026-02-14", DisplayStatusExpired},
		{"当日はexpiring", "2026-02-15", DisplayStatusExpiring},
		{"ちょうど3日後はexpiring", "2026-02-18", DisplayStatusExpiring},
		{"ちょうど4日後はfresh", "2026-02-19", DisplayStatusFresh},
		{"遠い未来はfresh", "2027-06-01", DisplayStatusFresh},
		{"パース不能な日付はfresh", "not-a-date", DisplayStatusFresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{Status: ItemStatusActive, BestBeforeDate: tt.date}
			got := DeriveDisplayStatus(item, fixedToday)
			if got != tt.want {
				t.Errorf("DeriveDisplayStatus(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestDeriveDisplayStatus_MonthBoundary(t *testing.T) {
	// 3日後の判定が月をまたぐケース
	today := CivilDate{Year: 2026, Month: time.January, Day: 30}
	item := &InventoryItem{Status: ItemStatusActive, BestBeforeDate: "2026-02-02"}
	if got := DeriveDisplayStatus(item, today); got != DisplayStatusExpiring {
		t.Errorf("DeriveDisplayStatus() = %q, want %q", got, DisplayStatusExpiring)
	}
	item.BestBeforeDate = "2026-02-03"
	if got := DeriveDisplayStatus(item, today); got != DisplayStatusFresh {
		t.Errorf("DeriveDisplayStatus() = %q, want %q", got, DisplayStatusFresh)
	}
}

func TestDeriveDisplayStatus_Idempotent(t *testing.T) {
	// 同一入力に対して常に同一出力を返す
	item := &InventoryItem{Status: ItemStatusActive, BestBeforeDate: "2026-02-17"}
	first := DeriveDisplayStatus(item, fixedToday)
	for i := 0; i < 10; i++ {
		if got := DeriveDisplayStatus(item, fixedToday); got != first {
			t.Fatalf("DeriveDisplayStatus() = %q on call %d, want %q", got, i, first)
		}
	}
}
