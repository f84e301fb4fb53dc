package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/config"
	"github.com/shouni/go-manga-page-kit/pkg/provider"
	"github.com/shouni/go-manga-page-kit/pkg/publisher"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
)

const (
	defaultGeminiTemperature = float32(0.4)
	geminiRetryDelay         = 2 * time.Second
	geminiMaxRetryDelay      = 10 * time.Second
)

// ManagerArgs は Manager の初期化に必要な依存関係です。
type ManagerArgs struct {
	Config      config.Config
	Credentials provider.Credentials
	HTTPClient  httpkit.HTTPClient
	Reader      imgports.ContentReader
	Writer      publisher.Writer
	// AIClient を省略した場合、Credentials.GeminiAPIKey があれば新規に作成します。
	AIClient gemini.GenerativeModel
}

// Manager は、ワークフローの各工程を担う部品を構築・管理します。
type Manager struct {
	cfg        config.Config
	creds      provider.Credentials
	httpClient httpkit.HTTPClient
	reader     imgports.ContentReader
	writer     publisher.Writer
	aiClient   gemini.GenerativeModel
	imageGen   imgports.ImageGenerator
	chain      *provider.Chain
}

// New は、設定と認証情報を基に新しい Manager を初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	if args.HTTPClient == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}
	if args.Reader == nil {
		return nil, fmt.Errorf("InputReader は必須です")
	}
	if args.Writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}

	aiClient := args.AIClient
	if aiClient == nil {
		var err error
		aiClient, err = initializeAIClient(ctx, args.Credentials.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
	}

	m := &Manager{
		cfg:        args.Config,
		creds:      args.Credentials,
		httpClient: args.HTTPClient,
		reader:     args.Reader,
		writer:     args.Writer,
		aiClient:   aiClient,
	}

	if aiClient != nil {
		imageGen, err := initializeImageGenerator(aiClient, args.Reader, args.HTTPClient)
		if err != nil {
			return nil, fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
		}
		m.imageGen = imageGen
	}

	chain, err := m.buildProviderChain()
	if err != nil {
		return nil, fmt.Errorf("プロバイダチェーンの初期化に失敗しました: %w", err)
	}
	m.chain = chain
	return m, nil
}

// Chain は構築済みのプロバイダチェーンを返します。
func (m *Manager) Chain() *provider.Chain {
	return m.chain
}

// initializeAIClient は gemini クライアントを初期化します。
// API キーが空の場合は nil を返し、Gemini を使う段はチェーンでスキップされます。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	if apiKey == "" {
		slog.DebugContext(ctx, "GEMINI_API_KEY が無いため Gemini クライアントを作成しません")
		return nil, nil
	}
	temperature := defaultGeminiTemperature
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:       apiKey,
		Temperature:  &temperature,
		InitialDelay: geminiRetryDelay,
		MaxDelay:     geminiMaxRetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}
