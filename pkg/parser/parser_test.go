package parser

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeReader struct {
	files map[string]string
}

func (f fakeReader) Open(_ context.Context, path string) (io.ReadCloser, error) {
	body, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestBlueprintParser(t *testing.T) {
	reader := fakeReader{files: map[string]string{
		"page.json":    `{"layout": "grid", "reasoning": "action", "panels": [{"id": 1, "description": "A duel."}]}`,
		"chapter.json": `{"chapterSummary": "s", "pages": [{"pageId": 1, "layout": "splash", "panels": []}]}`,
		"empty.json":   `{"chapterSummary": "s", "pages": []}`,
		"broken.json":  `{"layout": `,
	}}
	p := NewBlueprintParser(reader)
	ctx := context.Background()

	t.Run("単一ページの構成案を読み込むのだ", func(t *testing.T) {
		bp, err := p.ParsePageFromPath(ctx, "page.json")
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		if bp.Layout != "grid" || len(bp.Panels) != 1 || bp.Panels[0].Description != "A duel." {
			t.Errorf("構成案の内容が違うのだ: %+v", bp)
		}
	})

	t.Run("チャプター構成案を読み込むのだ", func(t *testing.T) {
		ch, err := p.ParseChapterFromPath(ctx, "chapter.json")
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		if len(ch.Pages) != 1 || ch.Pages[0].Layout != "splash" {
			t.Errorf("チャプターの内容が違うのだ: %+v", ch)
		}
	})

	t.Run("ページの無いチャプターはエラーなのだ", func(t *testing.T) {
		if _, err := p.ParseChapterFromPath(ctx, "empty.json"); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})

	t.Run("壊れたJSONと存在しないファイルはエラーなのだ", func(t *testing.T) {
		if _, err := p.ParsePageFromPath(ctx, "broken.json"); err == nil {
			t.Error("壊れたJSONでエラーにならなかったのだ")
		}
		if _, err := p.ParsePageFromPath(ctx, "missing.json"); err == nil {
			t.Error("存在しないファイルでエラーにならなかったのだ")
		}
	})
}

func TestReadAll(t *testing.T) {
	reader := fakeReader{files: map[string]string{"providers.toml": "order = []"}}
	ctx := context.Background()

	data, err := ReadAll(ctx, reader, "providers.toml")
	if err != nil {
		t.Fatalf("予期しないエラーなのだ: %v", err)
	}
	if string(data) != "order = []" {
		t.Errorf("期待値 %q, 実際の値 %q", "order = []", data)
	}
	if _, err := ReadAll(ctx, reader, "missing.toml"); err == nil {
		t.Error("存在しないファイルはエラーになるはずなのだ")
	}
}
