package generator

import (
	"context"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
)

// ImageSource は1コマ分の画像を生成します。*provider.Chain がこれを満たします。
type ImageSource interface {
	Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}

// Critic は生成画像の講評と再生成を担います。*critique.Loop がこれを満たします。
type Critic interface {
	ReviewAndMaybeRegenerate(ctx context.Context, img *domain.GeneratedImage, instruction string) *domain.GeneratedImage
}

// PlaceholderFunc は生成に失敗したパネルの代替画像を作ります。
type PlaceholderFunc func() (*domain.GeneratedImage, error)
