package critique

import (
	"context"
	"log/slog"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
)

// DefaultReviewTimeout は1回の講評にかける既定の上限時間です。
const DefaultReviewTimeout = 60 * time.Second

// Generator は改善プロンプトでの再生成を担います。試行回数を抑えた *provider.Chain を渡します。
type Generator interface {
	Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}

// Loop は講評と、不合格時の1回限りの再生成を行う品質ゲートです。
type Loop struct {
	reviewer Reviewer
	regen    Generator
	timeout  time.Duration
}

// NewLoop は Loop を生成します。reviewer が nil の場合、講評は常に素通りします。
func NewLoop(reviewer Reviewer, regen Generator, timeout time.Duration) *Loop {
	if timeout <= 0 {
		timeout = DefaultReviewTimeout
	}
	return &Loop{reviewer: reviewer, regen: regen, timeout: timeout}
}

// Enabled は講評者が設定されているかどうかを返します。
func (l *Loop) Enabled() bool {
	return l != nil && l.reviewer != nil
}

// ReviewAndMaybeRegenerate は画像を講評し、不合格かつ改善プロンプトがある場合に限り1回だけ再生成します。
// 講評の失敗は合格として扱い、再生成の失敗時は元の画像を返します。
func (l *Loop) ReviewAndMaybeRegenerate(ctx context.Context, img *domain.GeneratedImage, instruction string) *domain.GeneratedImage {
	if !l.Enabled() || img == nil || img.IsPlaceholder() {
		return img
	}

	decision := l.review(ctx, img, instruction)
	if decision.Pass || decision.ImprovedPrompt == "" || l.regen == nil {
		return img
	}

	slog.InfoContext(ctx, "講評で不合格となったため改善プロンプトで再生成します",
		"reason", decision.Reason,
		"improved_prompt", decision.ImprovedPrompt)

	regenerated, err := l.regen.Generate(ctx, decision.ImprovedPrompt)
	if err != nil {
		slog.WarnContext(ctx, "再生成に失敗したため元の画像を使います", "error", err)
		return img
	}
	regenerated.Regenerated = true
	return regenerated
}

// review は講評者の失敗を合格に読み替えます。
func (l *Loop) review(ctx context.Context, img *domain.GeneratedImage, instruction string) domain.CritiqueDecision {
	reviewCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	decision, err := l.reviewer.Review(reviewCtx, img, instruction)
	if err != nil {
		slog.WarnContext(ctx, "講評に失敗したため合格として扱います", "error", err)
		return domain.CritiqueDecision{Pass: true, Reason: "critique unavailable"}
	}
	slog.DebugContext(ctx, "講評結果", "pass", decision.Pass, "reason", decision.Reason)
	return decision
}
