package director

import "strings"

// StyleManager は全プロバイダに共通する画風指定をプロンプトへ付与します。
type StyleManager struct {
	Suffix string
}

func NewStyleManager(suffix string) *StyleManager {
	return &StyleManager{Suffix: strings.TrimSpace(suffix)}
}

// Apply はプロンプトの末尾に画風指定を連結します。
// 画風指定が空の場合はプロンプトをそのまま返します。
func (s *StyleManager) Apply(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if s == nil || s.Suffix == "" {
		return prompt
	}
	if prompt == "" {
		return s.Suffix
	}
	return prompt + ", " + s.Suffix
}
