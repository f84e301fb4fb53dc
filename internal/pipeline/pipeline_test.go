package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
	"github.com/shouni/go-manga-page-kit/pkg/publisher"
	"github.com/shouni/go-manga-page-kit/pkg/runner"
	"github.com/shouni/go-manga-page-kit/pkg/workflow"
)

type fakeWorkflow struct {
	runErr    error
	gotRunID  string
	gotOutput string
}

func (f *fakeWorkflow) BuildPageRunner() (workflow.PageRunner, error) { return f, nil }
func (f *fakeWorkflow) BuildPublisher() (workflow.Publisher, error)   { return f, nil }

func (f *fakeWorkflow) Run(_ context.Context, bp domain.Blueprint) (*runner.PageResult, error) {
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &runner.PageResult{Layout: bp.Layout}, nil
}

func (f *fakeWorkflow) Publish(_ context.Context, res *runner.PageResult, outputDir, runID string) (publisher.PublishResult, error) {
	f.gotRunID = runID
	f.gotOutput = outputDir
	return publisher.PublishResult{PagePath: outputDir + "/page.png"}, nil
}

func TestRunPage(t *testing.T) {
	ctx := context.Background()

	t.Run("生成結果を run_id 付きで保存するのだ", func(t *testing.T) {
		wf := &fakeWorkflow{}
		res, err := runPage(ctx, wf, domain.Blueprint{Layout: "grid"}, "out/page_1")
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		if wf.gotRunID == "" {
			t.Error("run_id が渡されていないのだ")
		}
		if wf.gotOutput != "out/page_1" || res.PagePath != "out/page_1/page.png" {
			t.Errorf("出力先が違うのだ: %q, %q", wf.gotOutput, res.PagePath)
		}
	})

	t.Run("生成の失敗は保存しないのだ", func(t *testing.T) {
		wf := &fakeWorkflow{runErr: errors.New("全滅")}
		if _, err := runPage(ctx, wf, domain.Blueprint{}, "out"); err == nil {
			t.Error("エラーになるはずなのだ")
		}
		if wf.gotRunID != "" {
			t.Error("失敗時に保存してはいけないのだ")
		}
	})
}

func TestResolvePageNumbers(t *testing.T) {
	t.Run("pageId が無ければ並び順を使うのだ", func(t *testing.T) {
		got, err := resolvePageNumbers([]domain.ChapterPage{{PageID: 0}, {PageID: 5}, {PageID: -1}})
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		want := []int{1, 5, 3}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("期待値 %v, 実際の値 %v", want, got)
				break
			}
		}
	})

	t.Run("明示した番号の重複はエラーなのだ", func(t *testing.T) {
		if _, err := resolvePageNumbers([]domain.ChapterPage{{PageID: 2}, {PageID: 2}}); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})

	t.Run("並び順と明示した番号の衝突もエラーなのだ", func(t *testing.T) {
		if _, err := resolvePageNumbers([]domain.ChapterPage{{PageID: 0}, {PageID: 1}}); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})
}
