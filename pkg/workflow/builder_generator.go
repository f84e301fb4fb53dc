package workflow

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	imagekit "github.com/shouni/gemini-image-kit/generator"
	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	defaultTTL             = 5 * time.Minute
)

// initializeImageGenerator は GeminiImageCore を組み立て、Gemini 段が使う ImageGenerator を返します。
func initializeImageGenerator(aiClient gemini.GenerativeModel, reader imgports.ContentReader, httpClient imgports.Downloader) (imgports.ImageGenerator, error) {
	core, err := initializeCore(reader, httpClient, aiClient)
	if err != nil {
		return nil, err
	}
	gen, err := imagekit.NewGeminiGenerator(core)
	if err != nil {
		return nil, fmt.Errorf("GeminiGenerator の初期化に失敗しました: %w", err)
	}
	return gen, nil
}

// initializeCore は提供された依存関係で構成された GeminiImageCore を返します。
func initializeCore(reader imgports.ContentReader, httpClient imgports.Downloader, aiClient gemini.GenerativeModel) (*imagekit.GeminiImageCore, error) {
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		aiClient,
		reader,
		httpClient,
		imgCache,
		defaultTTL,
		false,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}
	return core, nil
}
