package config

import (
	"testing"
	"time"

	kitconfig "github.com/shouni/go-manga-page-kit/pkg/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("環境変数で上書きできるのだ", func(t *testing.T) {
		t.Setenv("PANEL_COOLDOWN", "250ms")
		t.Setenv("CRITIQUE_PASS_SCORE", "8")
		t.Setenv("IMAGE_PROMPT_SUFFIX", "ink")

		cfg := LoadConfig()
		if cfg.Kit.PanelCooldown != 250*time.Millisecond {
			t.Errorf("期待値 250ms, 実際の値 %v", cfg.Kit.PanelCooldown)
		}
		if cfg.Kit.PassScore != 8 {
			t.Errorf("期待値 8, 実際の値 %d", cfg.Kit.PassScore)
		}
		if cfg.Kit.StyleSuffix != "ink" {
			t.Errorf("期待値 ink, 実際の値 %q", cfg.Kit.StyleSuffix)
		}
	})

	t.Run("解釈できない値は既定値のままなのだ", func(t *testing.T) {
		t.Setenv("PANEL_COOLDOWN", "soon")
		t.Setenv("CRITIQUE_PASS_SCORE", "high")

		cfg := LoadConfig()
		if cfg.Kit.PanelCooldown != kitconfig.DefaultPanelCooldown {
			t.Errorf("期待値 %v, 実際の値 %v", kitconfig.DefaultPanelCooldown, cfg.Kit.PanelCooldown)
		}
		if cfg.Kit.PassScore != kitconfig.DefaultPassScore {
			t.Errorf("期待値 %d, 実際の値 %d", kitconfig.DefaultPassScore, cfg.Kit.PassScore)
		}
	})
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc")
	t.Setenv("CLOUDFLARE_API_TOKEN", "tok")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("HF_API_KEY", "hf")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("予期しないエラーなのだ: %v", err)
	}
	if creds.GeminiAPIKey != "g" || creds.CloudflareAccountID != "acc" || creds.CloudflareAPIToken != "tok" || creds.HuggingFaceAPIKey != "hf" {
		t.Errorf("認証情報が読み込まれていないのだ: %+v", creds)
	}
	if creds.OpenRouterAPIKey != "" {
		t.Errorf("未設定の鍵は空のはずなのだ: %q", creds.OpenRouterAPIKey)
	}
}

func TestProviderOverrides(t *testing.T) {
	t.Run("順序と方針を上書きするのだ", func(t *testing.T) {
		data := []byte(`
order = ["pollinations", "gemini"]

[providers.gemini]
attempts = 1
delay = "500ms"
`)
		o, err := LoadProviderOverrides(data)
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		kit := kitconfig.DefaultConfig()
		if err := o.Apply(&kit); err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		if len(kit.ProviderOrder) != 2 || kit.ProviderOrder[0] != "pollinations" {
			t.Errorf("順序が上書きされていないのだ: %v", kit.ProviderOrder)
		}
		p := kit.PolicyFor("gemini")
		if p.MaxAttempts != 1 || p.BaseDelay != 500*time.Millisecond {
			t.Errorf("方針が上書きされていないのだ: %+v", p)
		}
		if kit.PolicyFor("cloudflare").MaxAttempts != 3 {
			t.Error("指定の無いアダプタは既定値のままなのだ")
		}
	})

	t.Run("未知のプロバイダ名はエラーなのだ", func(t *testing.T) {
		o, err := LoadProviderOverrides([]byte(`order = ["dalle"]`))
		if err != nil {
			t.Fatalf("予期しないエラーなのだ: %v", err)
		}
		kit := kitconfig.DefaultConfig()
		if err := o.Apply(&kit); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})

	t.Run("壊れた TOML はエラーなのだ", func(t *testing.T) {
		if _, err := LoadProviderOverrides([]byte("order = [")); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})

	t.Run("不正な delay はエラーなのだ", func(t *testing.T) {
		o, _ := LoadProviderOverrides([]byte("[providers.gemini]\ndelay = \"later\"\n"))
		kit := kitconfig.DefaultConfig()
		if err := o.Apply(&kit); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})
}
