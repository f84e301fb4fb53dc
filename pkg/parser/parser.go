package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
)

// SourceReader は構成案ファイルの読み込み元です。remoteio.InputReader を満たします。
type SourceReader interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// BlueprintParser は JSON 形式の構成案を解析する構造体です。
type BlueprintParser struct {
	reader SourceReader
}

// NewBlueprintParser は新しい BlueprintParser インスタンスを生成します。
func NewBlueprintParser(r SourceReader) *BlueprintParser {
	return &BlueprintParser{reader: r}
}

// ParsePageFromPath は GCS URI やローカルファイルパスから単一ページの構成案を読み込みます。
func (p *BlueprintParser) ParsePageFromPath(ctx context.Context, path string) (*domain.Blueprint, error) {
	bp := &domain.Blueprint{}
	if err := p.decode(ctx, path, bp); err != nil {
		return nil, err
	}
	return bp, nil
}

// ParseChapterFromPath は複数ページからなるチャプター構成案を読み込みます。
func (p *BlueprintParser) ParseChapterFromPath(ctx context.Context, path string) (*domain.ChapterBlueprint, error) {
	ch := &domain.ChapterBlueprint{}
	if err := p.decode(ctx, path, ch); err != nil {
		return nil, err
	}
	if len(ch.Pages) == 0 {
		return nil, fmt.Errorf("チャプター構成案にページが含まれていません (%s)", path)
	}
	return ch, nil
}

func (p *BlueprintParser) decode(ctx context.Context, path string, v any) error {
	slog.InfoContext(ctx, "構成案ファイルを読み込んでいます", "path", path)
	rc, err := p.reader.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("構成案ファイルのオープンに失敗しました (%s): %w", path, err)
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("構成案JSONのパースに失敗しました: %w", err)
	}
	return nil
}

// ReadAll は読み込み元からファイル全体を読み込みます。
func ReadAll(ctx context.Context, r SourceReader, path string) ([]byte, error) {
	rc, err := r.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ファイルのオープンに失敗しました (%s): %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return data, nil
}
