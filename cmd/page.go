package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-page-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// pageCmd は、1ページ分の構成案JSONから漫画ページを生成するのだ。
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "構成案JSONから1枚の漫画ページを生成するのだ。",
	Long: `レイアウトと各コマの描写を記した構成案JSONを読み込み、
プロバイダチェーンでパネル画像を生成してページに合成するのだ。
出力は page.png、panels/、manifest.json になるのだよ。`,
	RunE: pageCommand,
}

func pageCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.InputFile == "" {
		return fmt.Errorf("読み込む構成案JSON（--input-file）を指定してほしいのだ")
	}

	cfg := loadConfig(cmd)
	slog.Info("ページ生成パイプラインを起動するのだ！",
		"input", opts.InputFile,
		"output", opts.OutputDir,
		"critique", !opts.NoCritique)

	if err := pipeline.ExecutePage(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
