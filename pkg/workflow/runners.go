package workflow

import (
	"log/slog"

	"github.com/shouni/go-manga-page-kit/pkg/compositor"
	"github.com/shouni/go-manga-page-kit/pkg/critique"
	"github.com/shouni/go-manga-page-kit/pkg/director"
	"github.com/shouni/go-manga-page-kit/pkg/generator"
	"github.com/shouni/go-manga-page-kit/pkg/publisher"
	"github.com/shouni/go-manga-page-kit/pkg/runner"
)

// BuildCritiqueLoop は講評ループを作成します。講評が無効、または Gemini クライアントが無い場合は nil を返します。
func (m *Manager) BuildCritiqueLoop() *critique.Loop {
	if !m.cfg.CritiqueEnabled {
		slog.Info("講評は無効化されています")
		return nil
	}
	if m.aiClient == nil {
		slog.Info("GEMINI_API_KEY が無いため講評をスキップします")
		return nil
	}
	reviewer := critique.NewGeminiReviewer(m.aiClient, m.cfg.ReviewerModel, m.cfg.PassScore)
	return critique.NewLoop(reviewer, m.chain.WithMaxAttempts(m.cfg.ClampedRegenAttempts()), m.cfg.ReviewTimeout)
}

// BuildPageRunner は、レイアウト計算からページ合成までを担当する Runner を作成します。
func (m *Manager) BuildPageRunner() (PageRunner, error) {
	var critic generator.Critic
	if loop := m.BuildCritiqueLoop(); loop != nil {
		critic = loop
	}

	panelGen := generator.NewPanelGenerator(m.chain, critic, compositor.NewPlaceholder)
	pageGen := generator.NewPageGenerator(panelGen, m.cfg.PanelCooldown)
	return runner.NewPageRunner(director.NewLayoutManager(), pageGen, compositor.NewCompositor()), nil
}

// BuildPublisher は、成果物の保存を担当する Publisher を作成します。
func (m *Manager) BuildPublisher() (Publisher, error) {
	return publisher.NewPagePublisher(m.writer), nil
}
