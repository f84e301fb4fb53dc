package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-manga-page-kit/internal/config"
	kitconfig "github.com/shouni/go-manga-page-kit/pkg/config"
	"github.com/shouni/go-manga-page-kit/pkg/parser"
	"github.com/shouni/go-manga-page-kit/pkg/provider"
	"github.com/shouni/go-manga-page-kit/pkg/workflow"
)

// BuildWorkflow は CLI のオプションを反映した設定でワークフローを構築します。
func BuildWorkflow(ctx context.Context, appCtx *AppContext) (*workflow.Manager, error) {
	if err := ApplyProviderOverrides(ctx, appCtx); err != nil {
		return nil, err
	}

	kit := EffectiveKitConfig(appCtx)
	httpClient := provider.NewHTTPClient(EffectiveHTTPTimeout(appCtx))
	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:      kit,
		Credentials: appCtx.Config.Credentials,
		HTTPClient:  httpClient,
		Reader:      appCtx.Reader,
		Writer:      appCtx.Writer,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}
	return manager, nil
}

// EffectiveKitConfig は環境変数由来の設定にフラグの値を重ねたものを返します。
func EffectiveKitConfig(appCtx *AppContext) kitconfig.Config {
	kit := appCtx.Config.Kit
	if appCtx.Options.CooldownSet {
		kit.PanelCooldown = max(appCtx.Options.Cooldown, 0)
	}
	if appCtx.Options.NoCritique {
		kit.CritiqueEnabled = false
	}
	return kit
}

// EffectiveHTTPTimeout は --http-timeout を優先し、未指定なら設定の RequestTimeout を返します。
func EffectiveHTTPTimeout(appCtx *AppContext) time.Duration {
	if appCtx.Options.HTTPTimeout > 0 {
		return appCtx.Options.HTTPTimeout
	}
	if appCtx.Config.Kit.RequestTimeout > 0 {
		return appCtx.Config.Kit.RequestTimeout
	}
	return kitconfig.DefaultRequestTimeout
}

// BuildBlueprintParser は構成案のパーサーを構築します。
func BuildBlueprintParser(appCtx *AppContext) *parser.BlueprintParser {
	return parser.NewBlueprintParser(appCtx.Reader)
}

// ApplyProviderOverrides は --providers の TOML を読み込んで設定に反映します。
func ApplyProviderOverrides(ctx context.Context, appCtx *AppContext) error {
	return applyOverridesFrom(ctx, appCtx, appCtx.Reader)
}

func applyOverridesFrom(ctx context.Context, appCtx *AppContext, reader parser.SourceReader) error {
	path := appCtx.Options.ProvidersFile
	if path == "" {
		return nil
	}
	data, err := parser.ReadAll(ctx, reader, path)
	if err != nil {
		return fmt.Errorf("プロバイダ設定 '%s' の読み込みに失敗しました: %w", path, err)
	}
	overrides, err := config.LoadProviderOverrides(data)
	if err != nil {
		return err
	}
	return overrides.Apply(&appCtx.Config.Kit)
}
