package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxAttempts は既定の最大試行回数です。
	DefaultMaxAttempts = 3
	// DefaultInitialDelay は最初の再試行までの既定の待機時間です。
	DefaultInitialDelay = 2 * time.Second
)

// Policy は指数バックオフ付きの再試行方針です。
type Policy struct {
	// MaxAttempts は最大試行回数です。1 未満は 1 として扱います。
	MaxAttempts int
	// InitialDelay は1回目の失敗後の待機時間です。以降は失敗のたびに倍になります。
	InitialDelay time.Duration
	// OnAttemptFailure は、まだ試行が残っている失敗のたびに呼ばれます。
	// attempt は 1 始まりの試行番号、next は次の試行までの待機時間です。
	OnAttemptFailure func(attempt int, err error, next time.Duration)

	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy は既定値の Policy を返します。
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
	}
}

// PermanentError は再試行しても結果が変わらない失敗を表します（認証エラーなど）。
type PermanentError struct{ Err error }

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent は err を再試行対象外としてラップします。
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Do は op を最大 MaxAttempts 回まで逐次実行します。
// 各試行の前にコンテキストを確認し、待機中のキャンセルにも応答します。
// 最後の試行が失敗した場合は待機せずに直近のエラーを返します。
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(p.MaxAttempts, 1)
	delay := p.InitialDelay
	sleep := p.sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.As(err, new(*PermanentError)) {
			return zero, err
		}
		if i == attempts {
			break
		}

		if p.OnAttemptFailure != nil {
			p.OnAttemptFailure(i, err, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}

	return zero, fmt.Errorf("%d回の試行すべてに失敗しました: %w", attempts, lastErr)
}

// Sleep は d だけ待機します。待機中にコンテキストがキャンセルされた場合は ctx.Err() を返します。
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
