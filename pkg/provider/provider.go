package provider

import (
	"context"
	"time"

	imgports "github.com/shouni/gemini-image-kit/ports"
)

// Adapter は1つの画像生成バックエンドを表します。
// バックエンドを追加する場合は Adapter を実装するだけでよく、Chain の変更は不要です。
type Adapter interface {
	// Name はログと診断に使うプロバイダ名です。
	Name() string
	// Available は必要な認証情報が揃っているかどうかを返します。
	Available() bool
	// Generate はプロンプトから画像を1枚生成します。
	Generate(ctx context.Context, prompt string) (*imgports.ImageResponse, error)
}

// Credentials はプロバイダごとの認証情報です。値が空のプロバイダはチェーンで黙ってスキップされます。
type Credentials struct {
	GeminiAPIKey        string `env:"GEMINI_API_KEY"`
	CloudflareAccountID string `env:"CLOUDFLARE_ACCOUNT_ID"`
	CloudflareAPIToken  string `env:"CLOUDFLARE_API_TOKEN"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	HuggingFaceAPIKey   string `env:"HF_API_KEY"`
}

// Entry はチェーン内の1段を表し、アダプタとその再試行方針を組にします。
type Entry struct {
	Adapter     Adapter
	MaxAttempts int
	BaseDelay   time.Duration
}
