package provider

import (
	"context"
	"errors"
	"fmt"

	imgports "github.com/shouni/gemini-image-kit/ports"
)

// GeminiAdapter は gemini-image-kit の ImageGenerator を通して Gemini の画像生成モデルを呼び出すプレミアム段です。
type GeminiAdapter struct {
	generator imgports.ImageGenerator
	model     string
}

// NewGeminiAdapter は GeminiAdapter を生成します。generator が nil の場合は利用不可として扱われます。
func NewGeminiAdapter(generator imgports.ImageGenerator, model string) *GeminiAdapter {
	return &GeminiAdapter{generator: generator, model: model}
}

func (a *GeminiAdapter) Name() string { return "gemini" }

func (a *GeminiAdapter) Available() bool { return a.generator != nil }

// Generate は参照画像なしの単一パネル要求として生成します。
func (a *GeminiAdapter) Generate(ctx context.Context, prompt string) (*imgports.ImageResponse, error) {
	if a.generator == nil {
		return nil, errors.New("gemini: クライアントが設定されていません")
	}

	resp, err := a.generator.GenerateMangaPanel(ctx, imgports.ImagePanelRequest{
		GenerationOptions: imgports.GenerationOptions{
			Model:  a.model,
			Prompt: prompt,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: 画像生成に失敗しました (model=%s): %w", a.model, err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("gemini: 応答に画像が含まれていません (model=%s)", a.model)
	}
	return resp, nil
}
