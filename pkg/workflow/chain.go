package workflow

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-page-kit/pkg/config"
	"github.com/shouni/go-manga-page-kit/pkg/director"
	"github.com/shouni/go-manga-page-kit/pkg/provider"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
)

// buildProviderChain は設定の優先順位に従ってプロバイダチェーンを構築します。
func (m *Manager) buildProviderChain() (*provider.Chain, error) {
	adapters := BuildAdapters(m.cfg, m.creds, m.imageGen, m.httpClient)

	entries := make([]provider.Entry, 0, len(m.cfg.ProviderOrder))
	for _, name := range m.cfg.ProviderOrder {
		a, ok := adapters[name]
		if !ok {
			return nil, fmt.Errorf("未知のプロバイダ名です: %q", name)
		}
		policy := m.cfg.PolicyFor(name)
		entries = append(entries, provider.Entry{
			Adapter:     provider.NewRateLimited(a, m.cfg.RateInterval),
			MaxAttempts: policy.MaxAttempts,
			BaseDelay:   policy.BaseDelay,
		})
	}

	chain := provider.NewChain(director.NewStyleManager(m.cfg.StyleSuffix), entries...)
	slog.Debug("プロバイダチェーンを構築しました", "providers", chain.Names())
	return chain, nil
}

// BuildAdapters は設定キーからアダプタへの対応を返します。
// 認証情報が無いアダプタも生成され、Available() が false になります。
func BuildAdapters(cfg config.Config, creds provider.Credentials, imageGen imgports.ImageGenerator, httpClient httpkit.HTTPClient) map[string]provider.Adapter {
	fetcher := provider.NewFetcher(httpClient, provider.DefaultFetchCacheTTL)
	return map[string]provider.Adapter{
		config.AdapterGemini: provider.NewGeminiAdapter(imageGen, cfg.ImageModel),
		config.AdapterCloudflare: provider.NewCloudflareAdapter(provider.CloudflareConfig{
			AccountID:  creds.CloudflareAccountID,
			APIToken:   creds.CloudflareAPIToken,
			HTTPClient: httpClient,
		}),
		config.AdapterOpenRouter: provider.NewOpenRouterAdapter(provider.OpenRouterConfig{
			APIKey:     creds.OpenRouterAPIKey,
			Model:      cfg.OpenRouterModel,
			HTTPClient: httpClient,
			Fetcher:    fetcher,
		}),
		config.AdapterHuggingFace: provider.NewHuggingFaceAdapter(provider.HuggingFaceConfig{
			APIKey:     creds.HuggingFaceAPIKey,
			Model:      cfg.HuggingFaceModel,
			HTTPClient: httpClient,
		}),
		config.AdapterHFFallback: provider.NewHuggingFaceAdapter(provider.HuggingFaceConfig{
			APIKey:     creds.HuggingFaceAPIKey,
			Model:      cfg.HFFallbackModel,
			HTTPClient: httpClient,
		}),
		config.AdapterPollinations: provider.NewPollinationsAdapter(provider.PollinationsConfig{
			HTTPClient: httpClient,
		}),
	}
}
