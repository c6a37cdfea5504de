package product

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// categoryRule はキーワード照合1件を表す。
// ルールは順序付きスライスとして上から評価し、最初に一致したものが勝つ。
// マップにすると評価順が失われるため使わない。
type categoryRule struct {
	keywords []string
	result   model.Category
}

// fineCategoryRules は詳細分類（pnns_groups_2）に対するルール。
// 粗い分類より先に評価する: 「冷凍乳製品」はDairyではなくFrozenにする。
var fineCategoryRules = []categoryRule{
	{[]string{"frozen"}, model.CategoryFrozen},
	{[]string{"deli", "charcuterie"}, model.CategoryDeli},
	{[]string{"seafood", "fish"}, model.CategorySeafood},
	{[]string{"bread", "pastry", "cake"}, model.CategoryBakery},
	{[]string{"biscuit", "cookie", "snack"}, model.CategorySnacks},
}

// coarseCategoryRules は大分類（pnns_groups_1）に対するルール。
var coarseCategoryRules = []categoryRule{
	{[]string{"dairy", "milk"}, model.CategoryDairy},
	{[]string{"fish", "meat", "egg"}, model.CategoryMeat},
	{[]string{"beverage"}, model.CategoryBeverages},
	{[]string{"fruit", "vegetable"}, model.CategoryProduce},
	{[]string{"sugary", "snack"}, model.CategorySnacks},
	{[]string{"cereal", "fat", "sauce", "composite"}, model.CategoryPantry},
}

// tagCategoryRules はカテゴリタグの自由テキスト走査に対するルール（最終手段）。
var tagCategoryRules = []categoryRule{
	{[]string{"dairy", "milk", "cheese", "yogurt"}, model.CategoryDairy},
	{[]string{"meat", "poultry", "chicken", "beef"}, model.CategoryMeat},
	{[]string{"seafood", "fish"}, model.CategorySeafood},
	{[]string{"beverage", "drink", "juice"}, model.CategoryBeverages},
	{[]string{"frozen"}, model.CategoryFrozen},
	{[]string{"bread", "bakery", "pastry"}, model.CategoryBakery},
	{[]string{"snack", "chip", "cracker", "cookie"}, model.CategorySnacks},
	{[]string{"produce", "fruit", "vegetable"}, model.CategoryProduce},
	{[]string{"deli"}, model.CategoryDeli},
}

// matchCategory はルールを上から評価し、最初に一致した結果を返す。
func matchCategory(rules []categoryRule, s string) (model.Category, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.result, true
			}
		}
	}
	return "", false
}

// MapCategory は分類フィールドとカテゴリタグからカテゴリを推定する。
// 優先順位: 詳細分類 → 大分類 → タグ走査。すべて大文字小文字無視の部分一致。
// どれにも一致しない場合は空（呼び出し側の既定値を維持）。
func MapCategory(pnns1, pnns2 string, tags []string) model.Category {
	if c, ok := matchCategory(fineCategoryRules, strings.ToLower(pnns2)); ok {
		return c
	}
	if c, ok := matchCategory(coarseCategoryRules, strings.ToLower(pnns1)); ok {
		return c
	}
	if c, ok := matchCategory(tagCategoryRules, strings.ToLower(strings.Join(tags, " "))); ok {
		return c
	}
	return ""
}

// StorageFromCategory は解決済みカテゴリから保管場所を決定する。
// 独立に推定せず、常にカテゴリからの導出とする。
// 未解決を含むその他のカテゴリはPantry。
func StorageFromCategory(category model.Category) model.StorageLocation {
	switch category {
	case model.CategoryDairy, model.CategoryMeat, model.CategorySeafood,
		model.CategoryProduce, model.CategoryDeli:
		return model.StorageFridge
	case model.CategoryFrozen:
		return model.StorageFreezer
	default:
		return model.StoragePantry
	}
}

// packageUnitNouns はパッケージ単位として探す容器名詞（優先順）。
// 単数形の部分一致で複数形（cans, boxes, loaves等）もカバーする。
// loafのみ複数形の語幹が変わるため別途挙げる。
var packageUnitNouns = []string{
	"can", "bottle", "jar", "carton", "tub", "pouch",
	"loaf", "loaves", "bag", "box", "pack",
}

// UnitFromPackaging はパッケージタグ・パッケージ説明文・数量文字列から
// パッケージ単位を推定する。3つを連結した文字列に対して容器名詞を
// 優先順に照合し、最初に一致したものを返す。一致なしは空。
func UnitFromPackaging(tags []string, packagingText, quantityText string) string {
	s := strings.ToLower(strings.Join(tags, " ") + " " + packagingText + " " + quantityText)
	for _, noun := range packageUnitNouns {
		if strings.Contains(s, noun) {
			if noun == "loaves" {
				return "loaf"
			}
			return noun
		}
	}
	return ""
}

// sizeUnitPattern は内容量単位の表記ゆれ1件を表す。
// patternは先頭の数値と組み合わせてコンパイル済みの正規表現。
type sizeUnitPattern struct {
	re   *regexp.Regexp
	unit string
}

// sizeUnitPatterns は表記ゆれ→正規単位トークンの対応表（優先順）。
// fl ozはozより先に照合しないと「16 fl oz」がozに化ける。
var sizeUnitPatterns = buildSizeUnitPatterns([]struct {
	expr string
	unit string
}{
	{`fl\.?\s*oz`, "fl oz"},
	{`fluid\s*oz`, "fl oz"},
	{`ounces?`, "oz"},
	{`\boz\b`, "oz"},
	{`pounds?|\blbs?\b`, "lb"},
	{`kilograms?|\bkg\b`, "kg"},
	{`grams?|\bg\b`, "g"},
	{`millilitres?|milliliters?|\bml\b`, "ml"},
	{`litres?|liters?|\bl\b`, "L"},
	{`gallons?|\bgal\b`, "gal"},
})

func buildSizeUnitPatterns(specs []struct {
	expr string
	unit string
}) []sizeUnitPattern {
	patterns := make([]sizeUnitPattern, len(specs))
	for i, s := range specs {
		patterns[i] = sizeUnitPattern{
			re:   regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:` + s.expr + `)`),
			unit: s.unit,
		}
	}
	return patterns
}

// ParseSizeString は内容量表記（"16 fl oz"、"355 ml"、"500 g"等）を
// 数値と正規単位トークンへ分解する。対応表を上から照合し、
// 最初に一致した単位が勝つ。一致なしは ("", "", false)。
func ParseSizeString(raw string) (size, sizeUnit string, ok bool) {
	for _, p := range sizeUnitPatterns {
		if m := p.re.FindStringSubmatch(raw); m != nil {
			return m[1], p.unit, true
		}
	}
	return "", "", false
}

// 基準単位への換算係数。液体はml、固体はgへ寄せる。
const (
	mlPerLiter  = 1000
	mlPerFlOz   = 29.5735
	mlPerGallon = 3785.41
	gPerKg      = 1000
	gPerOz      = 28.3495
	gPerLb      = 453.592
)

// ToBaseUnit は内容量を基準単位（液体はml、固体はg）の数値へ換算する。
// 数値として読めない・未知の単位は (0, false)。
func ToBaseUnit(size, sizeUnit string) (float64, bool) {
	n, err := strconv.ParseFloat(size, 64)
	if err != nil {
		return 0, false
	}
	switch sizeUnit {
	case "ml":
		return n, true
	case "L":
		return n * mlPerLiter, true
	case "fl oz":
		return n * mlPerFlOz, true
	case "gal":
		return n * mlPerGallon, true
	case "g":
		return n, true
	case "kg":
		return n * gPerKg, true
	case "oz":
		return n * gPerOz, true
	case "lb":
		return n * gPerLb, true
	default:
		return 0, false
	}
}

// multiPackPattern は数量文字列の先頭の「<N> x」/「<N> ×」を検出する。
var multiPackPattern = regexp.MustCompile(`(?i)^(\d+)\s*[x×]`)

// マルチパック個数として受理する範囲。
// 上限100の根拠は元データの分布に合わせた経験則で、変更しない。
const (
	multiPackMin = 2
	multiPackMax = 100
)

// InferPackCount は数量フィールドからマルチパックの個数を推定する。
// 評価順:
//  1. 数量文字列が「<N> x」パターンに一致すればNをそのまま使う。
//  2. 総内容量とサービングサイズの両方があれば、サービングサイズを
//     基準単位へ換算し、総量÷単位量を最近傍へ丸める。
//     結果が2〜100の場合のみ受理する。
//
// 推定できない場合は空（呼び出し側の既定値"1"を維持）。
func InferPackCount(quantityText string, productQuantity float64, servingSize string) string {
	if m := multiPackPattern.FindStringSubmatch(quantityText); m != nil {
		return m[1]
	}

	if productQuantity > 0 && servingSize != "" {
		size, unit, ok := ParseSizeString(servingSize)
		if !ok {
			return ""
		}
		base, ok := ToBaseUnit(size, unit)
		if !ok || base <= 0 {
			return ""
		}
		count := int(productQuantity/base + 0.5)
		if count >= multiPackMin && count <= multiPackMax {
			return strconv.Itoa(count)
		}
	}
	return ""
}

// FirstBrand はカンマ区切りのブランドフィールドから先頭トークンを取り出す。
func FirstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

// PickName は名前候補フィールドを優先順に評価し、最初の非空値を返す。
func PickName(p *offProduct) string {
	for _, candidate := range []string{
		p.ProductName, p.ProductNameEn, p.GenericNameEn, p.GenericName,
	} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
