package provider

import (
	"context"
	"time"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"golang.org/x/time/rate"
)

// RateLimited はアダプタの呼び出し間隔を制限するデコレータです。
type RateLimited struct {
	Adapter
	limiter *rate.Limiter
}

// NewRateLimited は interval ごとに1回までの呼び出しに制限したアダプタを返します。
// interval が 0 以下の場合は元のアダプタをそのまま返します。
func NewRateLimited(a Adapter, interval time.Duration) Adapter {
	if interval <= 0 {
		return a
	}
	return &RateLimited{
		Adapter: a,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (r *RateLimited) Generate(ctx context.Context, prompt string) (*imgports.ImageResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.Adapter.Generate(ctx, prompt)
}
