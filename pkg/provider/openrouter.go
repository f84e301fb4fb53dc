package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-manga-page-kit/pkg/parser"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "google/gemini-2.5-flash-image-preview"
	openRouterReferer        = "https://github.com/shouni/go-manga-page-kit"
	openRouterTitle          = "go-manga-page-kit"
)

// URLFetcher は応答テキストから取り出した画像 URL の取得を担います。*Fetcher がこれを満たします。
type URLFetcher interface {
	Fetch(ctx context.Context, url string) (*imgports.ImageResponse, error)
}

// OpenRouterConfig はチャット形式のモデルを画像生成に使うアダプタの設定です。
type OpenRouterConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient httpkit.HTTPClient
	Fetcher    URLFetcher
}

// OpenRouterAdapter はチャット応答から画像を取り出します。
// 画像添付が無い場合は本文テキストから URL を抽出し、別途取得します。
type OpenRouterAdapter struct {
	cfg OpenRouterConfig
}

func NewOpenRouterAdapter(cfg OpenRouterConfig) *OpenRouterAdapter {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenRouterModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenRouterBaseURL
	}
	cfg.HTTPClient = clientOrDefault(cfg.HTTPClient)
	if cfg.Fetcher == nil {
		cfg.Fetcher = NewFetcher(cfg.HTTPClient, DefaultFetchCacheTTL)
	}
	return &OpenRouterAdapter{cfg: cfg}
}

func (a *OpenRouterAdapter) Name() string { return "openrouter/" + a.cfg.Model }

func (a *OpenRouterAdapter) Available() bool { return a.cfg.APIKey != "" }

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model      string              `json:"model"`
	Messages   []openRouterMessage `json:"messages"`
	Modalities []string            `json:"modalities,omitempty"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Images  []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *OpenRouterAdapter) Generate(ctx context.Context, prompt string) (*imgports.ImageResponse, error) {
	payload := openRouterRequest{
		Model:      a.cfg.Model,
		Messages:   []openRouterMessage{{Role: "user", Content: prompt}},
		Modalities: []string{"image", "text"},
	}
	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/chat/completions"

	req, err := newJSONRequest(ctx, a.Name(), endpoint, a.cfg.APIKey, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("HTTP-Referer", openRouterReferer)
	req.Header.Set("X-Title", openRouterTitle)

	body, err := a.cfg.HTTPClient.DoRequest(req)
	if err != nil {
		return nil, wrapHTTPError(a.Name(), err)
	}

	var out openRouterResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s: 応答のデコードに失敗しました: %w", a.Name(), err)
	}
	if out.Error != nil && out.Error.Message != "" {
		return nil, fmt.Errorf("%s: %s", a.Name(), out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New(a.Name() + ": 応答に choices が含まれていません")
	}

	msg := out.Choices[0].Message
	for _, img := range msg.Images {
		if u := img.ImageURL.URL; u != "" {
			return a.resolve(ctx, u)
		}
	}

	if strings.HasPrefix(strings.TrimSpace(msg.Content), "data:image/") {
		return decodeDataURL(a.Name(), strings.TrimSpace(msg.Content))
	}
	imageURL, ok := parser.ExtractImageURL(msg.Content)
	if !ok {
		return nil, fmt.Errorf("%s: 応答テキストに画像URLが見つかりません", a.Name())
	}
	return a.resolve(ctx, imageURL)
}

// resolve は data URL ならその場でデコードし、それ以外は Fetcher で取得します。
func (a *OpenRouterAdapter) resolve(ctx context.Context, u string) (*imgports.ImageResponse, error) {
	if strings.HasPrefix(u, "data:") {
		return decodeDataURL(a.Name(), u)
	}
	return a.cfg.Fetcher.Fetch(ctx, u)
}
