// Package product はバーコードから商品情報を解決する機能を提供する。
// Open Food Facts APIの呼び出しと、取得レコードから在庫フィールドへの
// 決定的なマッピングルールを含む。
package product

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const (
	// defaultBaseURL はOpen Food Facts APIのベースURL。
	defaultBaseURL = "https://world.openfoodfacts.org"
	// userAgent はOpen Food Factsの利用規約が求める識別用UA。
	userAgent = "SmartGroceryHousekeeping/1.0 (inventory tracker)"
	// defaultMaxBodySize はレスポンスボディの既定の読み取り上限。
	defaultMaxBodySize = 1 << 20
)

// offResponse はOpen Food Facts商品APIのレスポンスを表す。
// statusが1の場合のみproductが有効。0は「データベースに未登録」を表す。
type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

// offProduct は取得レコードのうちマッピングに使用するフィールドを表す。
// 使用しないフィールドはデコードしない。
type offProduct struct {
	ProductName     string     `json:"product_name"`
	ProductNameEn   string     `json:"product_name_en"`
	GenericName     string     `json:"generic_name"`
	GenericNameEn   string     `json:"generic_name_en"`
	Brands          string     `json:"brands"`
	PnnsGroups1     string     `json:"pnns_groups_1"`
	PnnsGroups2     string     `json:"pnns_groups_2"`
	CategoriesTags  []string   `json:"categories_tags"`
	PackagingTags   []string   `json:"packaging_tags"`
	Packaging       string     `json:"packaging"`
	Quantity        string     `json:"quantity"`
	ProductQuantity flexNumber `json:"product_quantity"`
	ServingSize     string     `json:"serving_size"`
}

// flexNumber は数値・数値文字列の両方で届くフィールドを受けるための型。
// product_quantityはレコードによりどちらの表現でも返ってくる。
// 読めない値は0として扱う（マルチパック推定がスキップされるだけで害はない）。
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(n)
	return nil
}

// Client はOpen Food Facts APIのクライアント。
// 外部APIへの礼儀として、全リクエストをレートリミッター経由で直列化する。
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	limiter     *rate.Limiter
	baseURL     string // テスト用にベースURLを差し替え可能
	maxBodySize int64
}

// NewClient はClient の新しいインスタンスを生成する。
// baseURLが空の場合は本番エンドポイントを、maxBodySizeが0以下の場合は
// 既定の読み取り上限を使用する。
func NewClient(httpClient *http.Client, logger *slog.Logger, baseURL string, minInterval rate.Limit, maxBodySize int64) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	return &Client{
		httpClient:  httpClient,
		logger:      logger,
		limiter:     rate.NewLimiter(minInterval, 1),
		baseURL:     baseURL,
		maxBodySize: maxBodySize,
	}
}

// FetchProduct はバーコードに対応する商品レコードを取得する。
// 戻り値は (record, found, err) の3値:
//   - 通信・パースに成功しデータベースに存在する場合は (record, true, nil)
//   - 通信・パースに成功しデータベースに存在しない場合は (nil, false, nil)
//   - それ以外は (nil, false, err)
func (c *Client) FetchProduct(ctx context.Context, barcode string) (*offProduct, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("商品APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("barcode", barcode),
		)
		return nil, false, err
	}
	defer resp.Body.Close()

	// 未登録バーコードを404で返すデプロイもあるため、404はstatus=0と同義に扱う
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("商品APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("barcode", barcode),
		)
		return nil, false, fmt.Errorf("商品APIがステータス %d を返しました", resp.StatusCode)
	}

	// 上限+1バイトまで読み、超過を途中切断ではなく明示的なエラーとして扱う。
	// 切り詰めたJSONをパースすると別のエラーに化けるため。
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, false, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		c.logger.Error("商品APIのレスポンスがサイズ上限を超えました",
			slog.Int64("max_body_size", c.maxBodySize),
			slog.String("barcode", barcode),
		)
		return nil, false, fmt.Errorf("レスポンスボディがサイズ上限 %d バイトを超えました", c.maxBodySize)
	}

	var result offResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("商品APIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
			slog.String("barcode", barcode),
		)
		return nil, false, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	if result.Status != 1 {
		return nil, false, nil
	}
	return &result.Product, true, nil
}
