package product

import (
	"context"
	"log/slog"
	"time"

	"github.com/bolucloud/smart-grocery-housekeeping-winter-2026/internal/model"
)

// TextSanitizer は外部データ由来のテキストをサニタイズするインターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// ResolverService はバーコードから商品情報を解決するインターフェース。
type ResolverService interface {
	// Resolve はバーコードに対応する商品情報を解決する。
	// データベースに未登録の場合はPRODUCT_NOT_FOUND、
	// 通信・パース失敗の場合はLOOKUP_FAILEDのAPIErrorを返す。
	// どちらも呼び出し側が手入力へフォールバックするための正常な信号であり、
	// 致命的エラーではない。
	Resolve(ctx context.Context, barcode string) (*model.ResolvedProduct, error)
}

// resolverService はResolverServiceの実装。
type resolverService struct {
	client    *Client
	sanitizer TextSanitizer
	logger    *slog.Logger
	nowFn     func() time.Time // テスト用フック
}

// NewResolverService はResolverServiceの新しいインスタンスを生成する。
func NewResolverService(client *Client, sanitizer TextSanitizer, logger *slog.Logger) ResolverService {
	return &resolverService{
		client:    client,
		sanitizer: sanitizer,
		logger:    logger,
		nowFn:     time.Now,
	}
}

// validBarcode はバーコードが数字のみで構成されているか検証する。
func validBarcode(barcode string) bool {
	if barcode == "" {
		return false
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Resolve はResolverServiceのインターフェースを実装する。
// 取得レコードから導出できなかったフィールドは未設定のまま残す:
// 解決が「未設定より悪い推測」を強制することはない。
func (s *resolverService) Resolve(ctx context.Context, barcode string) (*model.ResolvedProduct, error) {
	if !validBarcode(barcode) {
		return nil, model.NewInvalidBarcodeError(barcode)
	}

	record, found, err := s.client.FetchProduct(ctx, barcode)
	if err != nil {
		return nil, model.NewLookupFailedError(err.Error())
	}
	if !found {
		s.logger.Info("バーコードに該当する商品がありませんでした",
			slog.String("barcode", barcode),
		)
		return nil, model.NewProductNotFoundError(barcode)
	}

	resolved := s.mapRecord(barcode, record)
	s.logger.Info("商品情報を解決しました",
		slog.String("barcode", barcode),
		slog.String("name", resolved.Name),
		slog.String("category", string(resolved.Category)),
	)
	return resolved, nil
}

// mapRecord は取得レコードを決定的ルールで在庫フィールドへ変換する。
func (s *resolverService) mapRecord(barcode string, p *offProduct) *model.ResolvedProduct {
	resolved := &model.ResolvedProduct{Barcode: barcode}

	if name := PickName(p); name != "" {
		resolved.Name = s.sanitizer.Sanitize(name)
	}
	if p.Brands != "" {
		resolved.Brand = s.sanitizer.Sanitize(FirstBrand(p.Brands))
	}

	if category := MapCategory(p.PnnsGroups1, p.PnnsGroups2, p.CategoriesTags); category != "" {
		resolved.Category = category
		resolved.Storage = StorageFromCategory(category)
	}

	resolved.Unit = UnitFromPackaging(p.PackagingTags, p.Packaging, p.Quantity)

	// 内容量はサービングサイズを優先し、数量文字列へフォールバック
	sizeSource := p.ServingSize
	if sizeSource == "" {
		sizeSource = p.Quantity
	}
	if sizeSource != "" {
		if size, unit, ok := ParseSizeString(sizeSource); ok {
			resolved.Size = size
			resolved.SizeUnit = unit
		}
	}

	resolved.Quantity = InferPackCount(p.Quantity, float64(p.ProductQuantity), p.ServingSize)

	// 購入日は解決成功時点のローカル暦日
	resolved.PurchaseDate = model.CivilDateOf(s.nowFn()).String()

	return resolved
}
