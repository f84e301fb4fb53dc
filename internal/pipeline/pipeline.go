package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-page-kit/internal/builder"
	"github.com/shouni/go-manga-page-kit/internal/config"
	"github.com/shouni/go-manga-page-kit/pkg/asset"
	"github.com/shouni/go-manga-page-kit/pkg/domain"
	"github.com/shouni/go-manga-page-kit/pkg/publisher"
	"github.com/shouni/go-manga-page-kit/pkg/workflow"

	"github.com/google/uuid"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// ExecutePage は単一ページの構成案を読み込み、生成・合成・保存を行うのだ。
func ExecutePage(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	bp, err := builder.BuildBlueprintParser(appCtx).ParsePageFromPath(ctx, cfg.Options.InputFile)
	if err != nil {
		return err
	}

	wf, err := builder.BuildWorkflow(ctx, appCtx)
	if err != nil {
		return err
	}

	result, err := runPage(ctx, wf, *bp, cfg.Options.OutputDir)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "漫画ページが完成したのだ！", "path", result.PagePath)
	return nil
}

// ExecuteChapter は複数ページの構成案を読み込み、ページごとに順番に処理するのだ。
// 各ページは page_<n> ディレクトリに保存するのだ。
func ExecuteChapter(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	chapter, err := builder.BuildBlueprintParser(appCtx).ParseChapterFromPath(ctx, cfg.Options.InputFile)
	if err != nil {
		return err
	}

	pageNumbers, err := resolvePageNumbers(chapter.Pages)
	if err != nil {
		return err
	}

	wf, err := builder.BuildWorkflow(ctx, appCtx)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "チャプターの生成を開始するのだ", "pages", len(chapter.Pages), "summary", chapter.ChapterSummary)
	for i, page := range chapter.Pages {
		pageNumber := pageNumbers[i]
		pageDir, err := asset.PageDir(cfg.Options.OutputDir, pageNumber)
		if err != nil {
			return err
		}
		if _, err := runPage(ctx, wf, page.Blueprint(), pageDir); err != nil {
			return fmt.Errorf("%d ページ目の生成に失敗したのだ: %w", pageNumber, err)
		}
	}

	slog.InfoContext(ctx, "チャプターが完成したのだ！", "pages", len(chapter.Pages))
	return nil
}

// resolvePageNumbers は各ページの出力番号を決めるのだ。
// pageId が無いページは並び順を使い、番号が重なれば生成前にエラーにするのだ。
func resolvePageNumbers(pages []domain.ChapterPage) ([]int, error) {
	numbers := make([]int, len(pages))
	seen := make(map[int]int, len(pages))
	for i, page := range pages {
		n := page.PageID
		if n < 1 {
			n = i + 1
		}
		if prev, ok := seen[n]; ok {
			return nil, fmt.Errorf("ページ番号 %d が重複しているのだ（%d 件目と %d 件目）", n, prev+1, i+1)
		}
		seen[n] = i
		numbers[i] = n
	}
	return numbers, nil
}

// runPage は1ページ分の生成と保存を run_id 付きのログで行うのだ。
func runPage(ctx context.Context, wf workflow.Workflow, bp domain.Blueprint, outputDir string) (publisher.PublishResult, error) {
	pageRunner, err := wf.BuildPageRunner()
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("PageRunnerの構築に失敗したのだ: %w", err)
	}
	pub, err := wf.BuildPublisher()
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("Publisherの構築に失敗したのだ: %w", err)
	}

	runID := uuid.NewString()
	logger := slog.With("run_id", runID)
	logger.InfoContext(ctx, "ページの生成を開始するのだ", "layout", bp.Layout, "output", outputDir)

	res, err := pageRunner.Run(ctx, bp)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("ページの生成に失敗したのだ: %w", err)
	}

	published, err := pub.Publish(ctx, res, outputDir, runID)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("公開処理に失敗したのだ: %w", err)
	}
	logger.InfoContext(ctx, "ページを保存したのだ", "page", published.PagePath, "manifest", published.ManifestPath)
	return published, nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	cfg.Credentials = creds

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, reader, writer)
	return &appCtx, nil
}
