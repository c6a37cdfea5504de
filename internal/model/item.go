// Package model はドメインモデルを定義する。
package model

import "time"

// ItemStatus は在庫アイテムのライフサイクル状態を表す。
// 遷移は前方のみ: active → finished または active → spoiled。
// finished / spoiled は終端状態であり、activeへ戻ることはない。
type ItemStatus string

const (
	// ItemStatusActive は在庫中のアイテムを表す。
	ItemStatusActive ItemStatus = "active"
	// ItemStatusFinished は使い切ったアイテムを表す（終端状態）。
	ItemStatusFinished ItemStatus = "finished"
	// ItemStatusSpoiled は傷んで廃棄したアイテムを表す（終端状態）。
	ItemStatusSpoiled ItemStatus = "spoiled"
)

// IsTerminal は終端状態（finished / spoiled）かどうかを返す。
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusFinished || s == ItemStatusSpoiled
}

// Category は食品カテゴリを表す。値は固定の列挙セット。
type Category string

const (
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy"
	CategoryMeat      Category = "Meat"
	CategoryPantry    Category = "Pantry"
	CategoryFrozen    Category = "Frozen"
	CategoryBeverages Category = "Beverages"
	CategoryBakery    Category = "Bakery"
	CategorySnacks    Category = "Snacks"
	CategoryDeli      Category = "Deli"
	CategorySeafood   Category = "Seafood"
)

// Categories は全カテゴリの一覧（表示順）。
var Categories = []Category{
	CategoryProduce, CategoryDairy, CategoryMeat, CategoryPantry,
	CategoryFrozen, CategoryBeverages, CategoryBakery, CategorySnacks,
	CategoryDeli, CategorySeafood,
}

// Valid はカテゴリが列挙セットに含まれるかどうかを返す。
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// StorageLocation は保管場所を表す。
type StorageLocation string

const (
	StorageFridge  StorageLocation = "Fridge"
	StoragePantry  StorageLocation = "Pantry"
	StorageFreezer StorageLocation = "Freezer"
)

// StorageLocations は全保管場所の一覧（表示順）。
var StorageLocations = []StorageLocation{StorageFridge, StoragePantry, StorageFreezer}

// Valid は保管場所が列挙セットに含まれるかどうかを返す。
func (s StorageLocation) Valid() bool {
	for _, v := range StorageLocations {
		if s == v {
			return true
		}
	}
	return false
}

// ProduceType は生鮮品の種別を表す。category = Produce の場合のみ意味を持つ。
type ProduceType string

const (
	ProduceTypeVegetable ProduceType = "vegetable"
	ProduceTypeFruit     ProduceType = "fruit"
	ProduceTypeOther     ProduceType = "other"
)

// ProduceTypes は全生鮮品種別の一覧。
var ProduceTypes = []ProduceType{ProduceTypeVegetable, ProduceTypeFruit, ProduceTypeOther}

// Valid は生鮮品種別が列挙セットに含まれるかどうかを返す。
func (p ProduceType) Valid() bool {
	for _, v := range ProduceTypes {
		if p == v {
			return true
		}
	}
	return false
}

// DefaultUnit はパッケージ単位のデフォルト値。
const DefaultUnit = "ct"

// PackageUnits は選択可能なパッケージ単位の一覧。
var PackageUnits = []string{
	"ct", "piece", "bag", "box", "bottle", "can", "jar",
	"carton", "tub", "container", "pack", "loaf", "pouch",
}

// SizeUnits は選択可能な内容量単位の一覧。
var SizeUnits = []string{"oz", "fl oz", "lb", "g", "kg", "ml", "L", "gal"}

// ValidPackageUnit はパッケージ単位が選択肢の一覧に含まれるかどうかを返す。
func ValidPackageUnit(unit string) bool {
	for _, v := range PackageUnits {
		if unit == v {
			return true
		}
	}
	return false
}

// ValidSizeUnit は内容量単位が選択肢の一覧に含まれるかどうかを返す。
func ValidSizeUnit(unit string) bool {
	for _, v := range SizeUnits {
		if unit == v {
			return true
		}
	}
	return false
}

// InventoryItem は追跡対象の食品アイテム1件を表す。
// 日付フィールド（BestBeforeDate / PurchaseDate）は "YYYY-MM-DD" 形式の
// 文字列として保持し、比較時にローカル暦日としてパースする。
// Quantityは正の整数をテキストとして保持する（フォーム入力をそのまま保存する）。
type InventoryItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Barcode        string          `json:"barcode"`
	ProduceType    ProduceType     `json:"produce_type"`
	Category       Category        `json:"category"`
	Storage        StorageLocation `json:"storage"`
	Quantity       string          `json:"quantity"`
	Unit           string          `json:"unit"`
	Size           string          `json:"size"`
	SizeUnit       string          `json:"size_unit"`
	BestBeforeDate string          `json:"best_before_date"`
	PurchaseDate   string          `json:"purchase_date"`
	ShelfLifeDays  string          `json:"shelf_life_days"`
	Notes          string          `json:"notes"`
	Status         ItemStatus      `json:"status"`
	AddedAt        time.Time       `json:"added_at"`
}

// GroceryRun は1回の買い物（ショッピングトリップ）のグルーピングを表す。
// ItemIDsは参照のみを保持する: ランを削除してもアイテムは残る。
// メンバー一覧はラン作成時に確定し、以後変更されない。
type GroceryRun struct {
	ID        string    `json:"id"`
	StoreName string    `json:"store_name"`
	Date      string    `json:"date"` // YYYY-MM-DD
	ItemIDs   []string  `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
}
