package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultImageModel       = "gemini-3-pro-image-preview"
	DefaultReviewerModel    = "gemini-2.5-flash"
	DefaultOpenRouterModel  = "google/gemini-2.5-flash-image-preview"
	DefaultHuggingFaceModel = "stabilityai/stable-diffusion-xl-base-1.0"
	DefaultHFFallbackModel  = "CompVis/stable-diffusion-v1-4"
	DefaultPanelCooldown    = 5 * time.Second
	DefaultRateInterval     = 0
	DefaultRequestTimeout   = 90 * time.Second
	DefaultReviewTimeout    = 60 * time.Second
	DefaultPassScore        = 7
	DefaultRegenAttempts    = 1
	DefaultStyleSuffix      = "Seinen style, heavy cross-hatching, dramatic high contrast shadows, intricate details, manga aesthetic, black and white, masterpiece by Kentaro Miura, ink drawing"
)

// チェーンを構成するアダプタのキーです。--providers の TOML でもこの名前を使います。
const (
	AdapterGemini         = "gemini"
	AdapterCloudflare     = "cloudflare"
	AdapterOpenRouter     = "openrouter"
	AdapterHuggingFace    = "huggingface"
	AdapterHFFallback     = "huggingface-fallback"
	AdapterPollinations   = "pollinations"
	maxRegenAttemptsBound = 2
)

// AdapterPolicy はアダプタ1段ぶんの再試行方針です。
type AdapterPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Config は Go Manga Page Kit のパイプラインを動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	ImageModel       string // Gemini の画像生成モデル
	ReviewerModel    string // 講評に使う Gemini のマルチモーダルモデル
	OpenRouterModel  string
	HuggingFaceModel string
	HFFallbackModel  string

	// --- Generation Settings ---
	StyleSuffix   string
	PanelCooldown time.Duration
	RateInterval  time.Duration

	// --- Provider Chain ---
	ProviderOrder []string
	Policies      map[string]AdapterPolicy

	// --- Critique ---
	CritiqueEnabled bool
	PassScore       int
	RegenAttempts   int
	ReviewTimeout   time.Duration

	// --- Timeout ---
	RequestTimeout time.Duration
}

// DefaultProviderOrder はチェーンの既定の優先順位を返します。
func DefaultProviderOrder() []string {
	return []string{
		AdapterGemini,
		AdapterCloudflare,
		AdapterOpenRouter,
		AdapterHuggingFace,
		AdapterHFFallback,
		AdapterPollinations,
	}
}

// DefaultPolicies はアダプタごとの既定の再試行方針を返します。
func DefaultPolicies() map[string]AdapterPolicy {
	return map[string]AdapterPolicy{
		AdapterGemini:       {MaxAttempts: 2, BaseDelay: 2 * time.Second},
		AdapterCloudflare:   {MaxAttempts: 3, BaseDelay: 2 * time.Second},
		AdapterOpenRouter:   {MaxAttempts: 2, BaseDelay: 2 * time.Second},
		AdapterHuggingFace:  {MaxAttempts: 3, BaseDelay: 2 * time.Second},
		AdapterHFFallback:   {MaxAttempts: 2, BaseDelay: 2 * time.Second},
		AdapterPollinations: {MaxAttempts: 3, BaseDelay: 2 * time.Second},
	}
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		ImageModel:       DefaultImageModel,
		ReviewerModel:    DefaultReviewerModel,
		OpenRouterModel:  DefaultOpenRouterModel,
		HuggingFaceModel: DefaultHuggingFaceModel,
		HFFallbackModel:  DefaultHFFallbackModel,
		StyleSuffix:      DefaultStyleSuffix,
		PanelCooldown:    DefaultPanelCooldown,
		RateInterval:     DefaultRateInterval,
		ProviderOrder:    DefaultProviderOrder(),
		Policies:         DefaultPolicies(),
		CritiqueEnabled:  true,
		PassScore:        DefaultPassScore,
		RegenAttempts:    DefaultRegenAttempts,
		ReviewTimeout:    DefaultReviewTimeout,
		RequestTimeout:   DefaultRequestTimeout,
	}
}

// PolicyFor は指定アダプタの再試行方針を返します。未登録の場合は既定値 (3回/2秒) を返します。
func (c Config) PolicyFor(name string) AdapterPolicy {
	if p, ok := c.Policies[name]; ok {
		return p
	}
	return AdapterPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// ClampedRegenAttempts は再生成の試行回数を 1〜2 の範囲に収めて返します。
func (c Config) ClampedRegenAttempts() int {
	switch {
	case c.RegenAttempts < 1:
		return 1
	case c.RegenAttempts > maxRegenAttemptsBound:
		return maxRegenAttemptsBound
	default:
		return c.RegenAttempts
	}
}
