package director

import (
	"log/slog"

	"github.com/shouni/go-manga-page-kit/pkg/domain"
)

const (
	// CanvasWidth はページキャンバスの幅です（A4 比率）。
	CanvasWidth = 1240
	// CanvasHeight はページキャンバスの高さです。
	CanvasHeight = 1754
	// PageMargin はキャンバス外周の余白です。
	PageMargin = 50
	// PanelGap はパネル間の間隔です。
	PanelGap = 20
)

// LayoutManager はページサイズと余白に基づいてパネル座標を計算します。
type LayoutManager struct {
	Width  int
	Height int
	Margin int
	Gap    int
}

// NewLayoutManager は既定のページ寸法を持つ LayoutManager を生成します。
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		Width:  CanvasWidth,
		Height: CanvasHeight,
		Margin: PageMargin,
		Gap:    PanelGap,
	}
}

// CalculateLayout は既定のページ寸法でレイアウトを計算します。
func CalculateLayout(layout string) []domain.PanelRect {
	return NewLayoutManager().Calculate(layout)
}

// Calculate はレイアウト識別子をパネル矩形の順序付きリストに変換します。
// 未知の識別子は警告を出したうえで splash として扱います。
func (l *LayoutManager) Calculate(layout string) []domain.PanelRect {
	kind, ok := domain.ParseLayout(layout)
	if !ok {
		slog.Warn("未知のレイアウトが指定されたため splash にフォールバックします", "layout", layout)
		kind = domain.LayoutSplash
	}

	availW := l.Width - 2*l.Margin
	availH := l.Height - 2*l.Margin

	switch kind {
	case domain.LayoutGrid:
		w := (availW - l.Gap) / 2
		h := (availH - l.Gap) / 2
		right := l.Margin + w + l.Gap
		bottom := l.Margin + h + l.Gap
		return []domain.PanelRect{
			{ID: 1, X: l.Margin, Y: l.Margin, Width: w, Height: h},
			{ID: 2, X: right, Y: l.Margin, Width: w, Height: h},
			{ID: 3, X: l.Margin, Y: bottom, Width: w, Height: h},
			{ID: 4, X: right, Y: bottom, Width: w, Height: h},
		}
	case domain.LayoutCinematic:
		h := (availH - 2*l.Gap) / 3
		rects := make([]domain.PanelRect, 0, 3)
		for i := 0; i < 3; i++ {
			rects = append(rects, domain.PanelRect{
				ID:     i + 1,
				X:      l.Margin,
				Y:      l.Margin + i*(h+l.Gap),
				Width:  availW,
				Height: h,
			})
		}
		return rects
	default:
		return []domain.PanelRect{
			{ID: 1, X: l.Margin, Y: l.Margin, Width: availW, Height: availH},
		}
	}
}
