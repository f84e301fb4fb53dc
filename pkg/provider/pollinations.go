package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
)

const DefaultPollinationsBaseURL = "https://image.pollinations.ai/prompt"

// PollinationsConfig は匿名で使える無料段のアダプタ設定です。
type PollinationsConfig struct {
	BaseURL    string
	Model      string
	Width      int
	Height     int
	HTTPClient httpkit.HTTPClient
}

// PollinationsAdapter は認証不要の GET でバイナリ画像を受け取ります。常に利用可能です。
type PollinationsAdapter struct {
	cfg PollinationsConfig
}

func NewPollinationsAdapter(cfg PollinationsConfig) *PollinationsAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPollinationsBaseURL
	}
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 1024
	}
	cfg.HTTPClient = clientOrDefault(cfg.HTTPClient)
	return &PollinationsAdapter{cfg: cfg}
}

func (a *PollinationsAdapter) Name() string { return "pollinations" }

func (a *PollinationsAdapter) Available() bool { return true }

func (a *PollinationsAdapter) Generate(ctx context.Context, prompt string) (*imgports.ImageResponse, error) {
	q := url.Values{}
	q.Set("width", fmt.Sprint(a.cfg.Width))
	q.Set("height", fmt.Sprint(a.cfg.Height))
	q.Set("nologo", "true")
	if a.cfg.Model != "" {
		q.Set("model", a.cfg.Model)
	}
	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/" + url.PathEscape(prompt) + "?" + q.Encode()

	data, err := a.cfg.HTTPClient.FetchBytes(ctx, endpoint)
	if err != nil {
		return nil, wrapHTTPError(a.Name(), err)
	}
	return imageFromBytes(a.Name(), "", data)
}
