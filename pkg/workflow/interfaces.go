package workflow

import (
	"context"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
	"github.com/shouni/go-manga-page-kit/pkg/publisher"
	"github.com/shouni/go-manga-page-kit/pkg/runner"
)

// Workflow は、ページ生成ワークフローの各工程を担当する部品を構築するためのインターフェースを定義します。
type Workflow interface {
	BuildPageRunner() (PageRunner, error)
	BuildPublisher() (Publisher, error)
}

// PageRunner は、構成案からレイアウト計算・パネル生成・合成までを行う責務を持ちます。
type PageRunner interface {
	Run(ctx context.Context, blueprint domain.Blueprint) (*runner.PageResult, error)
}

// Publisher は、生成結果を指定ディレクトリに保存する責務を持ちます。
type Publisher interface {
	Publish(ctx context.Context, res *runner.PageResult, outputDir, runID string) (publisher.PublishResult, error)
}
