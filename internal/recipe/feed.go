package recipe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

// SSRFValidator はフィードURLのSSRF検証のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration) *http.Client
}

// TextSanitizer はフィード由来テキストのサニタイズのインターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// IdeaEntry はレシピアイデアフィードの記事1件を表す。
type IdeaEntry struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"`
	Published time.Time `json:"published,omitzero"`
}

const (
	// maxIdeaEntries はアイデア一覧として返す最大記事数。
	maxIdeaEntries = 10
	feedUserAgent  = "SmartGroceryHousekeeping/1.0 (inventory tracker)"
)

// IdeaFeedService はレシピアイデアフィードのインターフェース。
// フィードURL未設定のデプロイでは常に空を返す実装を使う。
type IdeaFeedService interface {
	// Entries はフィードの最新記事を返す。TTL内はキャッシュを返す。
	Entries(ctx context.Context) ([]*IdeaEntry, error)
}

// ideaFeedService はIdeaFeedServiceの実装。
// フィードは1本のみで再取得の頻度も低いため、キャッシュは
// ミューテックスで守る単純な (記事, 取得時刻) のペアで足りる。
type ideaFeedService struct {
	feedURL     string
	ttl         time.Duration
	timeout     time.Duration
	maxBodySize int64
	ssrfGuard   SSRFValidator
	sanitizer   TextSanitizer
	logger      *slog.Logger

	mu        sync.Mutex
	cached    []*IdeaEntry
	fetchedAt time.Time

	nowFn func() time.Time // テスト用フック
}

// NewIdeaFeedService はIdeaFeedServiceの新しいインスタンスを生成する。
// feedURLが空の場合は常に空の一覧を返すサービスを返す。
func NewIdeaFeedService(
	feedURL string,
	ttl time.Duration,
	timeout time.Duration,
	maxBodySize int64,
	ssrfGuard SSRFValidator,
	sanitizer TextSanitizer,
	logger *slog.Logger,
) IdeaFeedService {
	if feedURL == "" {
		return &disabledIdeaFeed{}
	}
	return &ideaFeedService{
		feedURL:     feedURL,
		ttl:         ttl,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		ssrfGuard:   ssrfGuard,
		sanitizer:   sanitizer,
		logger:      logger,
		nowFn:       time.Now,
	}
}

// disabledIdeaFeed はフィード未設定時の実装。
type disabledIdeaFeed struct{}

func (disabledIdeaFeed) Entries(ctx context.Context) ([]*IdeaEntry, error) {
	return []*IdeaEntry{}, nil
}

// Entries はIdeaFeedServiceのインターフェースを実装する。
// 取得失敗時、キャッシュがあれば期限切れでもそれを返す
// （提案画面の付加情報であり、鮮度より表示継続を優先する）。
func (s *ideaFeedService) Entries(ctx context.Context) ([]*IdeaEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	if s.cached != nil && now.Sub(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	entries, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("アイデアフィードの取得に失敗しました",
			slog.String("feed_url", s.feedURL),
			slog.String("error", err.Error()),
		)
		if s.cached != nil {
			return s.cached, nil
		}
		return nil, err
	}

	s.cached = entries
	s.fetchedAt = now
	return entries, nil
}

// fetch はフィードを取得・パースして記事一覧へ変換する。
func (s *ideaFeedService) fetch(ctx context.Context) ([]*IdeaEntry, error) {
	if err := s.ssrfGuard.ValidateURL(s.feedURL); err != nil {
		return nil, fmt.Errorf("フィードURLの検証に失敗しました: %w", err)
	}

	client := s.ssrfGuard.NewSafeClient(s.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", feedUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("フィードがステータス %d を返しました", resp.StatusCode)
	}

	// 上限を超えた分は読まない。切り詰められたXMLはパース段階で失敗する。
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("フィードのパースに失敗しました: %w", err)
	}

	entries := make([]*IdeaEntry, 0, maxIdeaEntries)
	for _, item := range parsed.Items {
		if len(entries) >= maxIdeaEntries {
			break
		}
		entry := &IdeaEntry{
			Title:   s.sanitizer.Sanitize(item.Title),
			Link:    item.Link,
			Summary: s.sanitizer.Sanitize(item.Description),
		}
		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
