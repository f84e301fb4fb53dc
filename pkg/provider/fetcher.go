package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultFetchCacheTTL は取得済み画像をキャッシュしておく既定の期間です。
	DefaultFetchCacheTTL = 10 * time.Minute
	fetcherName          = "fetcher"
)

// Fetcher はチャット形式の応答に含まれる画像 URL を取得します。
// 同一 URL への同時取得は1回にまとめられ、結果は一定期間キャッシュされます。
// 取得先は httpkit の SSRF 検証を通過した URL に限られます。
type Fetcher struct {
	client     httpkit.HTTPClient
	cache      *cache.Cache
	fetchGroup singleflight.Group
}

// NewFetcher は Fetcher を生成します。ttl が 0 以下の場合は既定値を使います。
func NewFetcher(client httpkit.HTTPClient, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultFetchCacheTTL
	}
	return &Fetcher{
		client: clientOrDefault(client),
		cache:  cache.New(ttl, 2*ttl),
	}
}

// Fetch は URL の画像を取得します。
func (f *Fetcher) Fetch(ctx context.Context, url string) (*imgports.ImageResponse, error) {
	if v, ok := f.cache.Get(url); ok {
		if img, ok := v.(*imgports.ImageResponse); ok {
			return img, nil
		}
	}

	val, err, _ := f.fetchGroup.Do(url, func() (interface{}, error) {
		// 待機中に他のゴルーチンが取得を終えている可能性があるため再確認します
		if v, ok := f.cache.Get(url); ok {
			return v, nil
		}

		img, err := f.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		f.cache.Set(url, img, cache.DefaultExpiration)
		return img, nil
	})
	if err != nil {
		return nil, err
	}

	img, ok := val.(*imgports.ImageResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return img, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (*imgports.ImageResponse, error) {
	data, err := f.client.FetchBytes(ctx, url)
	if err != nil {
		return nil, wrapHTTPError(fetcherName, fmt.Errorf("画像の取得に失敗しました (%s): %w", url, err))
	}
	return imageFromBytes(fetcherName, "", data)
}
