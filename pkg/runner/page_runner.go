package runner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/compositor"
	"github.com/shouni/go-manga-page-kit/pkg/director"
	"github.com/shouni/go-manga-page-kit/pkg/domain"
)

// PanelsGenerator はレイアウト順の指示からパネル画像を生成します。*generator.PageGenerator がこれを満たします。
type PanelsGenerator interface {
	Execute(ctx context.Context, instructions []domain.PanelInstruction) (map[int]*domain.GeneratedImage, error)
}

// PageResult は1ページ分の生成結果です。
type PageResult struct {
	Layout       string
	Rects        []domain.PanelRect
	Instructions []domain.PanelInstruction
	Images       map[int]*domain.GeneratedImage
	Page         *image.RGBA
	PNG          []byte
}

// PageRunner はレイアウト計算、パネル生成、ページ合成を順に実行します。
type PageRunner struct {
	layout     *director.LayoutManager
	generator  PanelsGenerator
	compositor *compositor.Compositor
}

// NewPageRunner は PageRunner を初期化します。layout と comp が nil の場合は既定値を使います。
func NewPageRunner(layout *director.LayoutManager, generator PanelsGenerator, comp *compositor.Compositor) *PageRunner {
	if layout == nil {
		layout = director.NewLayoutManager()
	}
	if comp == nil {
		comp = compositor.NewCompositor()
	}
	return &PageRunner{
		layout:     layout,
		generator:  generator,
		compositor: comp,
	}
}

// Run は構成案から1枚のページ画像を生成します。
func (r *PageRunner) Run(ctx context.Context, blueprint domain.Blueprint) (*PageResult, error) {
	startTime := time.Now()
	rects := r.layout.Calculate(blueprint.Layout)
	instructions := blueprint.Instructions(rects)
	if want := blueprint.ExpectedPanels(); len(blueprint.Panels) != want {
		slog.WarnContext(ctx, "PageRunner: 描写指示の数がレイアウトのパネル数と一致しません",
			"layout", blueprint.Layout,
			"expected", want,
			"actual", len(blueprint.Panels),
		)
	}

	slog.InfoContext(ctx, "PageRunner: ページ生成を開始します",
		"layout", blueprint.Layout,
		"panels", len(rects),
	)

	images, err := r.generator.Execute(ctx, instructions)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("パネル画像の生成に失敗しました: %w", err)
	}

	page := r.compositor.Assemble(rects, images)
	data, err := compositor.EncodePNG(page)
	if err != nil {
		return nil, fmt.Errorf("ページ画像のエンコードに失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "PageRunner: ページ生成が完了しました",
		"bytes", len(data),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)

	return &PageResult{
		Layout:       blueprint.Layout,
		Rects:        rects,
		Instructions: instructions,
		Images:       images,
		Page:         page,
		PNG:          data,
	}, nil
}
