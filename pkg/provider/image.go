package provider

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/shouni/go-manga-page-kit/pkg/domain"

	imgports "github.com/shouni/gemini-image-kit/ports"
	_ "golang.org/x/image/webp"
)

// toGeneratedImage はペイロードの固有サイズを読み取り、GeneratedImage に変換します。
// デコードできないペイロードは生成失敗として扱います。
func toGeneratedImage(resp *imgports.ImageResponse, source string) (*domain.GeneratedImage, error) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("%s: 空の画像を受け取りました", source)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(resp.Data))
	if err != nil {
		return nil, fmt.Errorf("%s: 画像として解釈できません: %w", source, err)
	}

	mimeType := resp.MimeType
	if mimeType == "" {
		mimeType = "image/" + format
	}
	return &domain.GeneratedImage{
		Data:     resp.Data,
		MimeType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Source:   source,
	}, nil
}
