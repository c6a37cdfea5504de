// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CivilDate はタイムゾーンを持たない暦日（ローカル日付）を表す。
// "YYYY-MM-DD" 文字列を年・月・日の成分に分解して保持する。
// time.Parseによる汎用パースはUTC解釈で境界が最大1日ずれるため使用しない。
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCivilDate は "YYYY-MM-DD" 形式の文字列を成分ごとにパースする。
// 形式が不正な場合はエラーを返す。
func ParseCivilDate(s string) (CivilDate, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return CivilDate{}, fmt.Errorf("無効な日付形式です: %q（YYYY-MM-DD形式で指定してください）", s)
	}

	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return CivilDate{}, fmt.Errorf("無効な年です: %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return CivilDate{}, fmt.Errorf("無効な月です: %q", parts[1])
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d < 1 || d > 31 {
		return CivilDate{}, fmt.Errorf("無効な日です: %q", parts[2])
	}

	return CivilDate{Year: y, Month: time.Month(m), Day: d}, nil
}

// CivilDateOf はtime.Timeのローカル暦日成分からCivilDateを生成する。
func CivilDateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// Time はローカルタイムゾーンの深夜0時としてtime.Timeに変換する。
func (c CivilDate) Time() time.Time {
	return time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, time.Local)
}

// AddDays は指定日数を加算した暦日を返す。月・年の繰り上がりは
// time.Dateの正規化に委ねる。
func (c CivilDate) AddDays(days int) CivilDate {
	return CivilDateOf(c.Time().AddDate(0, 0, days))
}

// Before はcがotherより前の暦日かどうかを返す。
func (c CivilDate) Before(other CivilDate) bool {
	return c.Time().Before(other.Time())
}

// After はcがotherより後の暦日かどうかを返す。
func (c CivilDate) After(other CivilDate) bool {
	return c.Time().After(other.Time())
}

// String は "YYYY-MM-DD" 形式の文字列を返す。
func (c CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, int(c.Month), c.Day)
}
