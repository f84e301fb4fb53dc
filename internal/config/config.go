package config

import (
	"fmt"
	"strconv"
	"time"

	kitconfig "github.com/shouni/go-manga-page-kit/pkg/config"
	"github.com/shouni/go-manga-page-kit/pkg/provider"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultOutputDir = "output" // パブリッシャーで使用するデフォルト保存先なのだ
)

// Config はアプリケーション全体の設定（ライブラリ設定と認証情報）を保持する構造体なのだ。
type Config struct {
	Kit         kitconfig.Config
	Credentials provider.Credentials

	Options GenerateOptions
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入出力関連
	InputFile string // --input-file
	OutputDir string // --output-dir

	// 生成制御
	Cooldown      time.Duration // --cooldown
	CooldownSet   bool          // --cooldown が明示されたかどうか（0 も有効な値なのだ）
	NoCritique    bool          // --no-critique
	ProvidersFile string        // --providers

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout（0 なら Kit.RequestTimeout を使うのだ）
	Verbose     bool          // --verbose
}

// LoadConfig は環境変数からライブラリ設定を読み込むのだ！
// 未設定や解釈できない値は既定値のままにするのだ。
func LoadConfig() *Config {
	kit := kitconfig.DefaultConfig()
	kit.ImageModel = envutil.GetEnv("IMAGE_GEMINI_MODEL", kit.ImageModel)
	kit.ReviewerModel = envutil.GetEnv("REVIEWER_GEMINI_MODEL", kit.ReviewerModel)
	kit.OpenRouterModel = envutil.GetEnv("OPENROUTER_MODEL", kit.OpenRouterModel)
	kit.HuggingFaceModel = envutil.GetEnv("HF_MODEL", kit.HuggingFaceModel)
	kit.StyleSuffix = envutil.GetEnv("IMAGE_PROMPT_SUFFIX", kit.StyleSuffix)
	kit.PanelCooldown = durationEnv("PANEL_COOLDOWN", kit.PanelCooldown)
	kit.RateInterval = durationEnv("PROVIDER_RATE_INTERVAL", kit.RateInterval)
	kit.RequestTimeout = durationEnv("REQUEST_TIMEOUT", kit.RequestTimeout)
	kit.PassScore = intEnv("CRITIQUE_PASS_SCORE", kit.PassScore)
	kit.RegenAttempts = intEnv("CRITIQUE_REGEN_ATTEMPTS", kit.RegenAttempts)

	return &Config{Kit: kit}
}

// LoadCredentials はプロバイダの認証情報を環境変数から読み込むのだ。
func LoadCredentials() (provider.Credentials, error) {
	var creds provider.Credentials
	if err := env.Parse(&creds); err != nil {
		return provider.Credentials{}, fmt.Errorf("認証情報の読み込みに失敗したのだ: %w", err)
	}
	return creds, nil
}

// ProviderOverride は TOML で1アダプタぶんの方針を上書きするのだ。
type ProviderOverride struct {
	Attempts int    `toml:"attempts"`
	Delay    string `toml:"delay"`
}

// ProviderOverrides は --providers で渡される TOML ファイルの内容なのだ。
//
//	order = ["pollinations", "gemini"]
//	[providers.gemini]
//	attempts = 1
//	delay = "500ms"
type ProviderOverrides struct {
	Order     []string                    `toml:"order"`
	Providers map[string]ProviderOverride `toml:"providers"`
}

// LoadProviderOverrides は TOML を解釈するのだ。
func LoadProviderOverrides(data []byte) (*ProviderOverrides, error) {
	var o ProviderOverrides
	if err := toml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("プロバイダ設定の TOML を解釈できないのだ: %w", err)
	}
	return &o, nil
}

// Apply は上書き設定をライブラリ設定に反映するのだ。
// 未知のアダプタ名はエラーにするのだ。
func (o *ProviderOverrides) Apply(kit *kitconfig.Config) error {
	if o == nil {
		return nil
	}
	known := make(map[string]bool)
	for _, name := range kitconfig.DefaultProviderOrder() {
		known[name] = true
	}

	if len(o.Order) > 0 {
		for _, name := range o.Order {
			if !known[name] {
				return fmt.Errorf("未知のプロバイダ名なのだ: %q", name)
			}
		}
		kit.ProviderOrder = append([]string(nil), o.Order...)
	}

	if kit.Policies == nil {
		kit.Policies = kitconfig.DefaultPolicies()
	}
	for name, ov := range o.Providers {
		if !known[name] {
			return fmt.Errorf("未知のプロバイダ名なのだ: %q", name)
		}
		policy := kit.PolicyFor(name)
		if ov.Attempts > 0 {
			policy.MaxAttempts = ov.Attempts
		}
		if ov.Delay != "" {
			d, err := time.ParseDuration(ov.Delay)
			if err != nil {
				return fmt.Errorf("%s の delay を解釈できないのだ: %w", name, err)
			}
			policy.BaseDelay = d
		}
		kit.Policies[name] = policy
	}
	return nil
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
