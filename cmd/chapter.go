package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-page-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// chapterCmd は、複数ページのチャプター構成案を順番に生成するのだ。
var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "チャプター構成案JSONから複数ページを生成するのだ。",
	Long: `pages 配列を持つチャプター構成案を読み込み、ページを1枚ずつ生成するのだ。
各ページは出力ディレクトリ配下の page_<n> に保存されるのだよ。`,
	RunE: chapterCommand,
}

func chapterCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.InputFile == "" {
		return fmt.Errorf("読み込むチャプター構成案JSON（--input-file）を指定してほしいのだ")
	}

	cfg := loadConfig(cmd)
	slog.Info("チャプター生成パイプラインを起動するのだ！",
		"input", opts.InputFile,
		"output", opts.OutputDir)

	if err := pipeline.ExecuteChapter(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
