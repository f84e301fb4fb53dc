package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-manga-page-kit/pkg/retry"

	imgports "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-http-kit/httpkit"
)

// NewHTTPClient はアダプタと Fetcher が共有する HTTP クライアントを生成します。
// 再試行はチェーンが担うため、httpkit 側のリトライは無効にします。
func NewHTTPClient(timeout time.Duration, options ...httpkit.ClientOption) *httpkit.Client {
	opts := append([]httpkit.ClientOption{httpkit.WithMaxRetries(0)}, options...)
	return httpkit.New(timeout, opts...)
}

func clientOrDefault(c httpkit.HTTPClient) httpkit.HTTPClient {
	if c == nil {
		return NewHTTPClient(httpkit.DefaultHTTPTimeout)
	}
	return c
}

// newJSONRequest は JSON 本文の POST リクエストを組み立てます。bearer が空なら認証ヘッダは付けません。
func newJSONRequest(ctx context.Context, provider, endpoint, bearer string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%s: リクエストのエンコードに失敗しました: %w", provider, err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%s: リクエストの作成に失敗しました: %w", provider, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", httpkit.UserAgent)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req, nil
}

// wrapHTTPError は httpkit のエラーにプロバイダ名を付けて返します。
// 4xx は StatusError に変換し、認証エラー (401/403) は恒久エラーとします。
func wrapHTTPError(provider string, err error) error {
	var nre *httpkit.NonRetryableHTTPError
	if !errors.As(err, &nre) {
		return fmt.Errorf("%s: リクエストに失敗しました: %w", provider, err)
	}
	se := &StatusError{
		Provider:   provider,
		StatusCode: nre.StatusCode,
		Body:       displayBody(nre.Body),
	}
	if nre.StatusCode == http.StatusUnauthorized || nre.StatusCode == http.StatusForbidden {
		return retry.Permanent(se)
	}
	return se
}

func displayBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > httpkit.MaxBodyDisplaySize {
		s = s[:httpkit.MaxBodyDisplaySize] + "..."
	}
	return s
}

// imageFromBytes は応答本文を画像として受け取ります。画像でない本文は失敗として扱います。
func imageFromBytes(provider, contentType string, data []byte) (*imgports.ImageResponse, error) {
	mimeType := imageMimeType(contentType, data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s: 画像ではない応答を受け取りました (content-type=%s)", provider, mimeType)
	}
	return &imgports.ImageResponse{Data: data, MimeType: mimeType}, nil
}

// imageMimeType はヘッダの Content-Type を優先し、無ければ本文から推定します。
func imageMimeType(header string, data []byte) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
			return mt
		}
	}
	if len(data) == 0 {
		return ""
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

// decodeDataURL は "data:image/png;base64,..." 形式の URL を画像に変換します。
func decodeDataURL(provider, dataURL string) (*imgports.ImageResponse, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%s: 未対応の data URL 形式です", provider)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: data URL のデコードに失敗しました: %w", provider, err)
	}
	return imageFromBytes(provider, strings.TrimSuffix(meta, ";base64"), data)
}
