package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
	"github.com/shouni/go-manga-page-kit/pkg/runner"
)

type memoryWriter struct {
	mu     sync.Mutex
	files  map[string][]byte
	types  map[string]string
	failOn string
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: map[string][]byte{}, types: map[string]string{}}
}

func (w *memoryWriter) Write(_ context.Context, path string, r io.Reader, contentType string) error {
	if w.failOn != "" && filepath.Base(path) == w.failOn {
		return errors.New("書き込み拒否")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = data
	w.types[path] = contentType
	return nil
}

func sampleResult() *runner.PageResult {
	return &runner.PageResult{
		Layout: "grid",
		Instructions: []domain.PanelInstruction{
			{ID: 1, Description: "a"},
			{ID: 2, Description: "b"},
			{ID: 3, Description: "c"},
		},
		Images: map[int]*domain.GeneratedImage{
			1: {Data: []byte("png1"), MimeType: "image/png", Source: "gemini", Width: 10, Height: 20},
			2: {Data: []byte("jpg2"), MimeType: "image/jpeg", Source: "pollinations", Regenerated: true},
			3: {Data: []byte("ph"), MimeType: "image/png", Source: domain.SourcePlaceholder},
		},
		PNG: []byte("page"),
	}
}

func TestPagePublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("ページ・パネル・マニフェストを保存するのだ", func(t *testing.T) {
		w := newMemoryWriter()
		res, err := NewPagePublisher(w).Publish(ctx, sampleResult(), "out", "run-1")
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}

		if string(w.files[res.PagePath]) != "page" {
			t.Errorf("ページ画像が保存されていないのだ: %q", res.PagePath)
		}
		if w.types[res.PagePath] != "image/png" {
			t.Errorf("期待値 image/png, 実際の値 %q", w.types[res.PagePath])
		}
		if len(res.PanelPaths) != 3 {
			t.Fatalf("代替画像も含めて3枚が保存されるはずなのだ: %v", res.PanelPaths)
		}
		if ph := filepath.Join("out", "panels", "panel_3.png"); string(w.files[ph]) != "ph" {
			t.Errorf("代替画像のパネルも保存されるはずなのだ: %v", res.PanelPaths)
		}
		jpg := filepath.Join("out", "panels", "panel_2.jpg")
		if string(w.files[jpg]) != "jpg2" {
			t.Errorf("JPEG の拡張子で保存されるはずなのだ: %v", res.PanelPaths)
		}

		var m Manifest
		if err := json.Unmarshal(w.files[res.ManifestPath], &m); err != nil {
			t.Fatalf("マニフェストを復号できないのだ: %v", err)
		}
		if m.RunID != "run-1" || m.Layout != "grid" || len(m.Panels) != 3 {
			t.Errorf("マニフェストの内容が不正なのだ: %+v", m)
		}
		if !m.Panels[2].Placeholder || m.Panels[2].Path != "panels/panel_3.png" {
			t.Errorf("パネル3は代替画像として記録されるのだ: %+v", m.Panels[2])
		}
		if !m.Panels[1].Regenerated || m.Panels[1].Source != "pollinations" || m.Panels[1].Path != "panels/panel_2.jpg" {
			t.Errorf("パネル2の記録が不正なのだ: %+v", m.Panels[1])
		}
	})

	t.Run("書き込み失敗はエラーになるのだ", func(t *testing.T) {
		w := newMemoryWriter()
		w.failOn = "panel_1.png"
		if _, err := NewPagePublisher(w).Publish(ctx, sampleResult(), "out", ""); err == nil {
			t.Error("エラーになるはずなのだ")
		}
		if _, ok := w.files[filepath.Join("out", "manifest.json")]; ok {
			t.Error("失敗時はマニフェストを書かないのだ")
		}
	})

	t.Run("画像が欠けたパネルには代替画像を保存するのだ", func(t *testing.T) {
		w := newMemoryWriter()
		pr := sampleResult()
		delete(pr.Images, 3)
		res, err := NewPagePublisher(w).Publish(ctx, pr, "out", "")
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		ph := filepath.Join("out", "panels", "panel_3.png")
		if len(w.files[ph]) == 0 || w.types[ph] != "image/png" {
			t.Errorf("代替画像の PNG が保存されるはずなのだ: %v", res.PanelPaths)
		}
		if rec := res.Manifest.Panels[2]; !rec.Placeholder || rec.Source != domain.SourcePlaceholder {
			t.Errorf("代替画像として記録されるはずなのだ: %+v", rec)
		}
	})

	t.Run("nil の結果はエラーなのだ", func(t *testing.T) {
		if _, err := NewPagePublisher(newMemoryWriter()).Publish(ctx, nil, "out", ""); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		mime, want string
	}{
		{"image/png", "p/panel_1.png"},
		{"image/jpeg", "p/panel_1.jpg"},
		{"image/webp; q=1", "p/panel_1.webp"},
		{"", "p/panel_1.png"},
	}
	for _, tt := range tests {
		if got := withExtension("p/panel_1.png", tt.mime); got != tt.want {
			t.Errorf("%q: 期待値 %q, 実際の値 %q", tt.mime, tt.want, got)
		}
	}
}
