package domain

// GeneratedImage は1コマ分の生成画像と、その固有サイズおよび提供元を保持します。
type GeneratedImage struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
	// Source は画像を生成したプロバイダ名です。プレースホルダの場合は "placeholder" になります。
	Source string
	// Regenerated はクリティークによって再生成された画像であることを示します。
	Regenerated bool
}

// SourcePlaceholder はプレースホルダ画像の提供元名です。
const SourcePlaceholder = "placeholder"

// IsPlaceholder はプレースホルダ画像かどうかを返します。
func (g *GeneratedImage) IsPlaceholder() bool {
	return g != nil && g.Source == SourcePlaceholder
}

// CritiqueDecision はビジョンモデルによる講評結果です。ImprovedPrompt が空の場合は改善案なしを意味します。
type CritiqueDecision struct {
	Pass           bool   `json:"pass"`
	Reason         string `json:"reason"`
	ImprovedPrompt string `json:"improvedPrompt,omitempty"`
}
