package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
)

type scriptedSource struct {
	fail    map[string]bool
	prompts []string
}

func (s *scriptedSource) Generate(_ context.Context, prompt string) (*domain.GeneratedImage, error) {
	s.prompts = append(s.prompts, prompt)
	if s.fail[prompt] {
		return nil, errors.New("すべての画像生成プロバイダが失敗しました")
	}
	return &domain.GeneratedImage{Data: []byte(prompt), Source: "fake"}, nil
}

type markingCritic struct {
	calls int
}

func (c *markingCritic) ReviewAndMaybeRegenerate(_ context.Context, img *domain.GeneratedImage, _ string) *domain.GeneratedImage {
	c.calls++
	out := *img
	out.Regenerated = true
	return &out
}

func placeholder() (*domain.GeneratedImage, error) {
	return &domain.GeneratedImage{Data: []byte("ph"), Source: domain.SourcePlaceholder}, nil
}

func instructions(descs ...string) []domain.PanelInstruction {
	out := make([]domain.PanelInstruction, 0, len(descs))
	for i, d := range descs {
		out = append(out, domain.PanelInstruction{ID: i + 1, Description: d})
	}
	return out
}

func TestPanelGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("生成した画像を講評に通すのだ", func(t *testing.T) {
		critic := &markingCritic{}
		pg := NewPanelGenerator(&scriptedSource{}, critic, placeholder)
		img, err := pg.Generate(ctx, domain.PanelInstruction{ID: 1, Description: "a"})
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		if !img.Regenerated || critic.calls != 1 {
			t.Errorf("講評を通っていないのだ: %+v", img)
		}
	})

	t.Run("全プロバイダが失敗したら代替画像にするのだ", func(t *testing.T) {
		critic := &markingCritic{}
		pg := NewPanelGenerator(&scriptedSource{fail: map[string]bool{"a": true}}, critic, placeholder)
		img, err := pg.Generate(ctx, domain.PanelInstruction{ID: 1, Description: "a"})
		if err != nil {
			t.Fatalf("パネル単体の失敗はエラーにならないのだ: %v", err)
		}
		if !img.IsPlaceholder() {
			t.Errorf("代替画像のはずなのだ: %+v", img)
		}
		if critic.calls != 0 {
			t.Error("代替画像は講評しないのだ")
		}
	})

	t.Run("キャンセルはエラーとして返すのだ", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		pg := NewPanelGenerator(&scriptedSource{fail: map[string]bool{"a": true}}, nil, placeholder)
		if _, err := pg.Generate(cctx, domain.PanelInstruction{ID: 1, Description: "a"}); !errors.Is(err, context.Canceled) {
			t.Errorf("期待値 context.Canceled, 実際の値 %v", err)
		}
	})
}

func TestPageGenerator_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("パネルを順番に生成し間に待機を挟むのだ", func(t *testing.T) {
		src := &scriptedSource{}
		page := NewPageGenerator(NewPanelGenerator(src, nil, placeholder), 3*time.Second)
		var slept []time.Duration
		page.sleep = func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}

		results, err := page.Execute(ctx, instructions("p1", "p2", "p3", "p4"))
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		if len(results) != 4 {
			t.Fatalf("期待値 4, 実際の値 %d", len(results))
		}
		want := []string{"p1", "p2", "p3", "p4"}
		for i, p := range want {
			if src.prompts[i] != p {
				t.Errorf("[%d] 期待値 %q, 実際の値 %q", i, p, src.prompts[i])
			}
		}
		if len(slept) != 3 {
			t.Errorf("待機は3回のはずなのだ: %v", slept)
		}
	})

	t.Run("1パネルなら待機しないのだ", func(t *testing.T) {
		page := NewPageGenerator(NewPanelGenerator(&scriptedSource{}, nil, placeholder), time.Hour)
		page.sleep = func(ctx context.Context, d time.Duration) error {
			t.Error("待機しないはずなのだ")
			return nil
		}
		if _, err := page.Execute(ctx, instructions("solo")); err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
	})

	t.Run("一部の失敗は代替画像でページを続行するのだ", func(t *testing.T) {
		src := &scriptedSource{fail: map[string]bool{"p2": true}}
		page := NewPageGenerator(NewPanelGenerator(src, nil, placeholder), 0)
		results, err := page.Execute(ctx, instructions("p1", "p2", "p3"))
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		if !results[2].IsPlaceholder() || results[1].IsPlaceholder() || results[3].IsPlaceholder() {
			t.Errorf("パネル2だけが代替画像のはずなのだ: %+v", results)
		}
	})

	t.Run("すべて失敗したらページ全体の失敗なのだ", func(t *testing.T) {
		src := &scriptedSource{fail: map[string]bool{"p1": true, "p2": true}}
		page := NewPageGenerator(NewPanelGenerator(src, nil, placeholder), 0)
		results, err := page.Execute(ctx, instructions("p1", "p2"))
		if !errors.Is(err, ErrNoPanelsProduced) {
			t.Fatalf("期待値 ErrNoPanelsProduced, 実際の値 %v", err)
		}
		if len(results) != 2 {
			t.Errorf("代替画像は結果に含まれるはずなのだ: %d", len(results))
		}
	})

	t.Run("待機中のキャンセルで中断するのだ", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		src := &scriptedSource{}
		page := NewPageGenerator(NewPanelGenerator(src, nil, placeholder), time.Second)
		page.sleep = func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}
		_, err := page.Execute(cctx, instructions("p1", "p2"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("期待値 context.Canceled, 実際の値 %v", err)
		}
		if len(src.prompts) != 1 {
			t.Errorf("2枚目は生成されないはずなのだ: %v", src.prompts)
		}
	})
}
