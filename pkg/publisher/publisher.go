package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/shouni/go-manga-page-kit/pkg/asset"
	"github.com/shouni/go-manga-page-kit/pkg/compositor"
	"github.com/shouni/go-manga-page-kit/pkg/runner"

	"golang.org/x/sync/errgroup"
)

const (
	pngMimeType      = "image/png"
	jsonMimeType     = "application/json; charset=utf-8"
	maxParallelWrite = 4
)

// Writer は成果物を保存する出力先です。remoteio.OutputWriter がこれを満たします。
type Writer interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// PanelRecord はマニフェストに記録するパネル1枚分の情報です。
type PanelRecord struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Regenerated bool   `json:"regenerated"`
	Placeholder bool   `json:"placeholder"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Path        string `json:"path,omitempty"`
}

// Manifest はページ生成結果の記録です。
type Manifest struct {
	RunID  string        `json:"runId,omitempty"`
	Layout string        `json:"layout"`
	Page   string        `json:"page"`
	Panels []PanelRecord `json:"panels"`
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	PagePath     string
	ManifestPath string
	PanelPaths   []string
	Manifest     Manifest
}

// PagePublisher はページ画像、パネル画像、マニフェストを保存します。
type PagePublisher struct {
	writer Writer
}

// NewPagePublisher は PagePublisher を初期化します。
func NewPagePublisher(writer Writer) *PagePublisher {
	return &PagePublisher{writer: writer}
}

// Publish は生成結果を outputDir 配下に保存します。
// パネル画像は代替画像も含めて並列に書き込みます。画像が欠けたパネルには代替画像を補います。
func (p *PagePublisher) Publish(ctx context.Context, res *runner.PageResult, outputDir, runID string) (PublishResult, error) {
	result := PublishResult{}
	if res == nil {
		return result, fmt.Errorf("公開するページ結果が nil です")
	}

	pagePath, err := asset.ResolveOutputPath(outputDir, asset.DefaultPageFileName)
	if err != nil {
		return result, fmt.Errorf("ページ画像の出力パスの解決に失敗しました: %w", err)
	}
	manifestPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultManifestName)
	if err != nil {
		return result, fmt.Errorf("マニフェストの出力パスの解決に失敗しました: %w", err)
	}

	manifest := Manifest{
		RunID:  runID,
		Layout: res.Layout,
		Page:   asset.DefaultPageFileName,
		Panels: make([]PanelRecord, 0, len(res.Instructions)),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelWrite)

	eg.Go(func() error {
		if err := p.writer.Write(egCtx, pagePath, bytes.NewReader(res.PNG), pngMimeType); err != nil {
			return fmt.Errorf("ページ画像の書き込みに失敗しました %s: %w", pagePath, err)
		}
		return nil
	})

	for _, inst := range res.Instructions {
		rec := PanelRecord{ID: inst.ID, Description: inst.Description}
		img := res.Images[inst.ID]
		if img == nil || len(img.Data) == 0 {
			ph, err := compositor.NewPlaceholder()
			if err != nil {
				_ = eg.Wait()
				return result, fmt.Errorf("パネル %d の代替画像の生成に失敗しました: %w", inst.ID, err)
			}
			img = ph
		}
		rec.Source = img.Source
		rec.Regenerated = img.Regenerated
		rec.Placeholder = img.IsPlaceholder()
		rec.Width = img.Width
		rec.Height = img.Height

		panelPath, err := asset.PanelPath(outputDir, inst.ID)
		if err != nil {
			_ = eg.Wait()
			return result, fmt.Errorf("パネル %d の出力パスの解決に失敗しました: %w", inst.ID, err)
		}
		panelPath = withExtension(panelPath, img.MimeType)
		rec.Path = relativePanelPath(panelPath)
		result.PanelPaths = append(result.PanelPaths, panelPath)

		data, mimeType := img.Data, img.MimeType
		eg.Go(func() error {
			if err := p.writer.Write(egCtx, panelPath, bytes.NewReader(data), mimeType); err != nil {
				return fmt.Errorf("パネル画像の書き込みに失敗しました %s: %w", panelPath, err)
			}
			return nil
		})
		manifest.Panels = append(manifest.Panels, rec)
	}

	if err := eg.Wait(); err != nil {
		return result, err
	}

	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return result, fmt.Errorf("マニフェストのエンコードに失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, manifestPath, bytes.NewReader(body), jsonMimeType); err != nil {
		return result, fmt.Errorf("マニフェストの書き込みに失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "ページを保存しました",
		"page", pagePath,
		"panels", len(result.PanelPaths),
	)

	result.PagePath = pagePath
	result.ManifestPath = manifestPath
	result.Manifest = manifest
	return result, nil
}

// withExtension はパネル画像の MIME タイプに合わせて拡張子を付け替えます。
func withExtension(p, mimeType string) string {
	var ext string
	switch strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	default:
		return p
	}
	return strings.TrimSuffix(p, path.Ext(p)) + ext
}

// relativePanelPath はマニフェストに書くための panels/ からの相対パスを返します。
func relativePanelPath(p string) string {
	name := p[strings.LastIndexAny(p, `/\`)+1:]
	return path.Join(asset.DefaultPanelDir, name)
}
