package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
)

const (
	DefaultCloudflareBaseURL = "https://api.cloudflare.com/client/v4"
	DefaultCloudflareModel   = "@cf/black-forest-labs/flux-1-schnell"
)

// CloudflareConfig は Workers AI アダプタの設定です。
type CloudflareConfig struct {
	AccountID  string
	APIToken   string
	Model      string
	BaseURL    string
	HTTPClient httpkit.HTTPClient
}

// CloudflareAdapter は Cloudflare Workers AI のテキストから画像を生成するモデルを呼び出します。
type CloudflareAdapter struct {
	cfg CloudflareConfig
}

func NewCloudflareAdapter(cfg CloudflareConfig) *CloudflareAdapter {
	if cfg.Model == "" {
		cfg.Model = DefaultCloudflareModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCloudflareBaseURL
	}
	cfg.HTTPClient = clientOrDefault(cfg.HTTPClient)
	return &CloudflareAdapter{cfg: cfg}
}

func (a *CloudflareAdapter) Name() string { return "cloudflare" }

func (a *CloudflareAdapter) Available() bool {
	return a.cfg.AccountID != "" && a.cfg.APIToken != ""
}

type cloudflareResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Image string `json:"image"`
	} `json:"result"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Generate はモデルに応じてバイナリ画像または base64 を含む JSON 封筒のどちらかを受け取ります。
func (a *CloudflareAdapter) Generate(ctx context.Context, prompt string) (*imgports.ImageResponse, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/ai/run/%s", strings.TrimRight(a.cfg.BaseURL, "/"), a.cfg.AccountID, a.cfg.Model)
	req, err := newJSONRequest(ctx, a.Name(), endpoint, a.cfg.APIToken, map[string]any{"prompt": prompt})
	if err != nil {
		return nil, err
	}
	body, err := a.cfg.HTTPClient.DoRequest(req)
	if err != nil {
		return nil, wrapHTTPError(a.Name(), err)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		return imageFromBytes(a.Name(), "", body)
	}

	var payload cloudflareResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("cloudflare: 応答のデコードに失敗しました: %w", err)
	}
	if !payload.Success && len(payload.Errors) > 0 {
		return nil, fmt.Errorf("cloudflare: %s", payload.Errors[0].Message)
	}
	if payload.Result.Image == "" {
		return nil, errors.New("cloudflare: 応答に画像が含まれていません")
	}

	data, err := base64.StdEncoding.DecodeString(payload.Result.Image)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: 画像のデコードに失敗しました: %w", err)
	}
	return imageFromBytes(a.Name(), "", data)
}
