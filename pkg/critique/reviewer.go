package critique

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shouni/go-manga-page-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

const (
	// DefaultReviewerModel は講評に使う既定のビジョンモデルです。
	DefaultReviewerModel = "gemini-2.5-flash"
	// DefaultPassScore は合格とみなす最低スコア（1〜10）です。
	DefaultPassScore = 7
)

// Reviewer は生成画像と元の描写指示を比較して講評します。
type Reviewer interface {
	Review(ctx context.Context, img *domain.GeneratedImage, instruction string) (domain.CritiqueDecision, error)
}

// PartsGenerator は画像とテキストのパーツから生成する API です。gemini.GenerativeModel がこれを満たします。
type PartsGenerator interface {
	GenerateWithParts(ctx context.Context, modelName string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// GeminiReviewer は Gemini のビジョンモデルで画像を採点します。
type GeminiReviewer struct {
	client    PartsGenerator
	model     string
	passScore int
}

// NewGeminiReviewer は GeminiReviewer を生成します。client は nil であってはなりません。
func NewGeminiReviewer(client PartsGenerator, model string, passScore int) *GeminiReviewer {
	if model == "" {
		model = DefaultReviewerModel
	}
	if passScore <= 0 {
		passScore = DefaultPassScore
	}
	return &GeminiReviewer{client: client, model: model, passScore: passScore}
}

const reviewSystemPrompt = "You are a strict manga art director. Reply with a single JSON object and nothing else."

const reviewPromptTemplate = `Compare this generated image to the prompt: %q.
1. Is the action correct?
2. Is the style consistent (Manga, B&W)?

Output JSON: { "score": (1-10), "advice": "Short sentence on how to fix it if score < %d" }`

func (r *GeminiReviewer) Review(ctx context.Context, img *domain.GeneratedImage, instruction string) (domain.CritiqueDecision, error) {
	if img == nil || len(img.Data) == 0 {
		return domain.CritiqueDecision{}, errors.New("講評対象の画像がありません")
	}

	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf(reviewPromptTemplate, instruction, r.passScore)),
		genai.NewPartFromBytes(img.Data, img.MimeType),
	}
	resp, err := r.client.GenerateWithParts(ctx, r.model, parts, gemini.GenerateOptions{
		SystemPrompt: reviewSystemPrompt,
	})
	if err != nil {
		return domain.CritiqueDecision{}, fmt.Errorf("講評リクエストに失敗しました (model=%s): %w", r.model, err)
	}
	if resp == nil {
		return domain.CritiqueDecision{}, errors.New("講評の応答が空です")
	}

	return ParseVerdict(resp.Text, instruction, r.passScore)
}

var codeFenceRegex = regexp.MustCompile("```(?:json)?")

type verdict struct {
	Score          *float64 `json:"score"`
	Advice         string   `json:"advice"`
	ImprovedPrompt string   `json:"improved_prompt"`
}

// ParseVerdict はモデルの JSON 応答を CritiqueDecision に変換します。
// 改善プロンプトが無い不合格の場合は、元の描写に助言を追記したものを改善プロンプトとします。
func ParseVerdict(text, instruction string, passScore int) (domain.CritiqueDecision, error) {
	cleaned := strings.TrimSpace(codeFenceRegex.ReplaceAllString(text, ""))
	if cleaned == "" {
		return domain.CritiqueDecision{}, errors.New("講評の応答が空です")
	}

	var v verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return domain.CritiqueDecision{}, fmt.Errorf("講評JSONのパースに失敗しました: %w", err)
	}
	if v.Score == nil {
		return domain.CritiqueDecision{}, errors.New("講評JSONに score が含まれていません")
	}

	advice := strings.TrimSpace(v.Advice)
	decision := domain.CritiqueDecision{
		Pass:   *v.Score >= float64(passScore),
		Reason: advice,
	}
	if decision.Pass {
		return decision, nil
	}

	switch {
	case strings.TrimSpace(v.ImprovedPrompt) != "":
		decision.ImprovedPrompt = strings.TrimSpace(v.ImprovedPrompt)
	case advice != "":
		decision.ImprovedPrompt = strings.TrimRight(strings.TrimSpace(instruction), ".") + ". " + advice
	}
	return decision, nil
}
