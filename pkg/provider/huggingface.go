package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
)

const (
	DefaultHuggingFaceBaseURL       = "https://api-inference.huggingface.co/models"
	DefaultHuggingFaceModel         = "stabilityai/stable-diffusion-xl-base-1.0"
	DefaultHuggingFaceFallbackModel = "CompVis/stable-diffusion-v1-4"
)

// ErrModelLoading はモデルのウォームアップ中（HTTP 503）を示す一時的なエラーです。
var ErrModelLoading = errors.New("モデルを読み込み中です")

// HuggingFaceConfig は Inference API アダプタの設定です。
type HuggingFaceConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient httpkit.HTTPClient
}

// HuggingFaceAdapter は Inference API を呼び出し、バイナリ画像をそのまま受け取ります。
type HuggingFaceAdapter struct {
	cfg HuggingFaceConfig
}

func NewHuggingFaceAdapter(cfg HuggingFaceConfig) *HuggingFaceAdapter {
	if cfg.Model == "" {
		cfg.Model = DefaultHuggingFaceModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHuggingFaceBaseURL
	}
	cfg.HTTPClient = clientOrDefault(cfg.HTTPClient)
	return &HuggingFaceAdapter{cfg: cfg}
}

func (a *HuggingFaceAdapter) Name() string { return "huggingface/" + a.cfg.Model }

func (a *HuggingFaceAdapter) Available() bool { return a.cfg.APIKey != "" }

// Generate は 503 を ErrModelLoading として返します。
func (a *HuggingFaceAdapter) Generate(ctx context.Context, prompt string) (*imgports.ImageResponse, error) {
	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/" + a.cfg.Model
	req, err := newJSONRequest(ctx, a.Name(), endpoint, a.cfg.APIKey, map[string]string{"inputs": prompt})
	if err != nil {
		return nil, err
	}

	res, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: リクエストに失敗しました: %w", a.Name(), err)
	}
	if res.StatusCode == http.StatusServiceUnavailable {
		body, _ := httpkit.HandleLimitedResponse(res, httpkit.MaxBodyDisplaySize)
		return nil, fmt.Errorf("%s: %w: %s", a.Name(), ErrModelLoading, strings.TrimSpace(string(body)))
	}

	contentType := res.Header.Get("Content-Type")
	data, err := httpkit.HandleResponse(res)
	if err != nil {
		return nil, wrapHTTPError(a.Name(), err)
	}
	return imageFromBytes(a.Name(), contentType, data)
}
