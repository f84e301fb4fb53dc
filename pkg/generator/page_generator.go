package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
	"github.com/shouni/go-manga-page-kit/pkg/retry"
)

// ErrNoPanelsProduced は、どのパネルもプロバイダから画像を得られなかったことを示します。
var ErrNoPanelsProduced = errors.New("ページ内のどのパネルも生成できませんでした")

// PageGenerator はページ内のパネルを1枚ずつ順番に生成します。
type PageGenerator struct {
	panel    *PanelGenerator
	cooldown time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewPageGenerator は PageGenerator の新しいインスタンスを初期化します。
func NewPageGenerator(panel *PanelGenerator, cooldown time.Duration) *PageGenerator {
	return &PageGenerator{
		panel:    panel,
		cooldown: cooldown,
		sleep:    retry.Sleep,
	}
}

// Execute は指示の順にパネルを生成し、パネル ID から画像への対応を返します。
// 複数パネルの場合はパネル間に cooldown を挟みます。
// すべてのパネルが代替画像になった場合は、生成結果とともに ErrNoPanelsProduced を返します。
func (pg *PageGenerator) Execute(ctx context.Context, instructions []domain.PanelInstruction) (map[int]*domain.GeneratedImage, error) {
	results := make(map[int]*domain.GeneratedImage, len(instructions))
	if len(instructions) == 0 {
		return results, ErrNoPanelsProduced
	}

	produced := 0
	for i, inst := range instructions {
		if i > 0 && pg.cooldown > 0 {
			slog.DebugContext(ctx, "レート制限回避のため次のパネルまで待機します", "cooldown", pg.cooldown)
			if err := pg.sleep(ctx, pg.cooldown); err != nil {
				return results, err
			}
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		img, err := pg.panel.Generate(ctx, inst)
		if err != nil {
			return results, fmt.Errorf("パネル %d の処理を中断しました: %w", inst.ID, err)
		}
		results[inst.ID] = img
		if !img.IsPlaceholder() {
			produced++
		}
	}

	slog.InfoContext(ctx, "ページ内のパネル生成が完了しました", "panels", len(instructions), "produced", produced)
	if produced == 0 {
		return results, ErrNoPanelsProduced
	}
	return results, nil
}
