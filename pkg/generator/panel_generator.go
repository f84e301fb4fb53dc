package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
)

// PanelGenerator は1コマ分の画像を、プロバイダチェーン・講評・代替画像の順で確定させます。
type PanelGenerator struct {
	source      ImageSource
	critic      Critic
	placeholder PlaceholderFunc
}

// NewPanelGenerator は PanelGenerator の新しいインスタンスを初期化します。critic は nil でも構いません。
func NewPanelGenerator(source ImageSource, critic Critic, placeholder PlaceholderFunc) *PanelGenerator {
	return &PanelGenerator{
		source:      source,
		critic:      critic,
		placeholder: placeholder,
	}
}

// Generate は指示に対応する画像を返します。
// すべてのプロバイダが失敗した場合は代替画像を返し、エラーにはしません。
// コンテキストのキャンセルのみエラーとして返します。
func (pg *PanelGenerator) Generate(ctx context.Context, instruction domain.PanelInstruction) (*domain.GeneratedImage, error) {
	logger := slog.With("panel_id", instruction.ID)
	logger.InfoContext(ctx, "パネルの生成を開始します")
	startTime := time.Now()

	img, err := pg.source.Generate(ctx, instruction.Description)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.ErrorContext(ctx, "パネルの生成に失敗したため代替画像を使います", "error", err)
		return pg.fallback(instruction.ID)
	}

	if pg.critic != nil {
		img = pg.critic.ReviewAndMaybeRegenerate(ctx, img, instruction.Description)
	}

	logger.InfoContext(ctx, "パネルの生成が完了しました",
		"source", img.Source,
		"regenerated", img.Regenerated,
		"duration", time.Since(startTime).Round(time.Millisecond))
	return img, nil
}

func (pg *PanelGenerator) fallback(panelID int) (*domain.GeneratedImage, error) {
	if pg.placeholder == nil {
		return nil, fmt.Errorf("パネル %d の代替画像が設定されていません", panelID)
	}
	img, err := pg.placeholder()
	if err != nil {
		return nil, fmt.Errorf("パネル %d の代替画像の作成に失敗しました: %w", panelID, err)
	}
	return img, nil
}
