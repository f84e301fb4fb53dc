package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/director"
	"github.com/shouni/go-manga-page-kit/pkg/domain"
	"github.com/shouni/go-manga-page-kit/pkg/retry"
)

// Chain は優先順に並んだアダプタを順に試し、最初に成功した画像を返します。
type Chain struct {
	entries    []Entry
	style      *director.StyleManager
	attemptCap int
}

// NewChain は Chain を生成します。style が nil の場合はプロンプトを加工しません。
func NewChain(style *director.StyleManager, entries ...Entry) *Chain {
	return &Chain{
		entries: entries,
		style:   style,
	}
}

// WithMaxAttempts は各アダプタの試行回数を n 回までに抑えたチェーンを返します。
// 元のチェーンは変更されません。
func (c *Chain) WithMaxAttempts(n int) *Chain {
	clone := *c
	clone.attemptCap = max(n, 1)
	return &clone
}

// Names はチェーンに登録されたプロバイダ名を優先順に返します。
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		names = append(names, e.Adapter.Name())
	}
	return names
}

// Generate は画風指定を付与したプロンプトで各アダプタを優先順に試します。
// 認証情報の無いアダプタは呼び出さずにスキップし、成功した時点で残りのアダプタは試しません。
// すべてが失敗またはスキップされた場合は *AllProvidersExhaustedError を返します。
func (c *Chain) Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	fullPrompt := c.style.Apply(prompt)
	exhausted := &AllProvidersExhaustedError{}

	for _, e := range c.entries {
		adapter := e.Adapter
		name := adapter.Name()
		if !adapter.Available() {
			slog.DebugContext(ctx, "認証情報が無いためプロバイダをスキップします", "provider", name)
			exhausted.Skipped = append(exhausted.Skipped, name)
			continue
		}

		policy := retry.Policy{
			MaxAttempts:  c.attemptsFor(e),
			InitialDelay: e.BaseDelay,
			OnAttemptFailure: func(attempt int, err error, next time.Duration) {
				slog.WarnContext(ctx, "画像生成に失敗しました。再試行します",
					"provider", name,
					"attempt", attempt,
					"retry_in", next,
					"error", err)
			},
		}

		img, err := retry.Do(ctx, policy, func(ctx context.Context) (*domain.GeneratedImage, error) {
			resp, err := adapter.Generate(ctx, fullPrompt)
			if err != nil {
				return nil, err
			}
			return toGeneratedImage(resp, name)
		})
		if err == nil {
			slog.InfoContext(ctx, "画像を生成しました", "provider", name, "width", img.Width, "height", img.Height)
			return img, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		slog.WarnContext(ctx, "プロバイダを諦めて次に進みます", "provider", name, "error", err)
		exhausted.Failures = append(exhausted.Failures, &ProviderError{Provider: name, Err: err})
	}

	return nil, exhausted
}

func (c *Chain) attemptsFor(e Entry) int {
	attempts := e.MaxAttempts
	if attempts <= 0 {
		attempts = retry.DefaultMaxAttempts
	}
	if c.attemptCap > 0 && attempts > c.attemptCap {
		attempts = c.attemptCap
	}
	return attempts
}
