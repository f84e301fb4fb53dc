package cmd

import (
	"log/slog"
	"os"

	"github.com/shouni/go-manga-page-kit/internal/config"

	charmlog "github.com/charmbracelet/log"
	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全サブコマンドで共有する実行時オプションなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 入出力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.InputFile, "input-file", "f", "", "構成案JSONのパス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "生成物を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- 生成の挙動設定 ---
	rootCmd.PersistentFlags().DurationVar(&opts.Cooldown, "cooldown", 0, "パネル間の待機時間なのだ。未指定なら設定値を使い、0 なら待たないのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.NoCritique, "no-critique", false, "Gemini による講評と再生成を無効にするのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ProvidersFile, "providers", "", "プロバイダの順序と再試行方針を上書きする TOML ファイルなのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", 0, "プロバイダへのリクエストのタイムアウトなのだ。0 なら REQUEST_TIMEOUT（既定 90s）を使うのだ。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前にロガーを整えるのだ。
// 認証情報はプロバイダごとに任意なので、ここでは必須チェックしないのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := charmlog.InfoLevel
	if opts.Verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"manga-page",
		addAppFlags,
		preRunAppE,
		pageCmd,
		chapterCmd,
		layoutCmd,
	)
}

// loadConfig は環境変数の設定にフラグの値を重ねるのだ。
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	cfg.Options.CooldownSet = cmd.Flags().Changed("cooldown")
	return cfg
}
