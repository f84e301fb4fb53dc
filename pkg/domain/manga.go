package domain

import "strings"

// PageLayout はページのコマ割り形式を表します。
type PageLayout string

const (
	// LayoutSplash はページ全体を1コマで使う見開き形式です。
	LayoutSplash PageLayout = "splash"
	// LayoutGrid は 2x2 の4コマ形式です。
	LayoutGrid PageLayout = "grid"
	// LayoutCinematic は横長の帯を縦に3段積む形式です。
	LayoutCinematic PageLayout = "cinematic"
)

// DefaultPanelDescription は、パネルに対応する描写指示が存在しない場合に使われる汎用の描写です。
const DefaultPanelDescription = "A generic scene."

// ParseLayout は大文字小文字と前後の空白を無視してレイアウト識別子を解釈します。
// 未知の識別子の場合は false を返します。
func ParseLayout(s string) (PageLayout, bool) {
	switch PageLayout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutSplash:
		return LayoutSplash, true
	case LayoutGrid:
		return LayoutGrid, true
	case LayoutCinematic:
		return LayoutCinematic, true
	}
	return "", false
}

// PanelCount はレイアウトごとの固定パネル数を返します。
func (l PageLayout) PanelCount() int {
	switch l {
	case LayoutGrid:
		return 4
	case LayoutCinematic:
		return 3
	default:
		return 1
	}
}

// PanelRect はページキャンバス上のパネルの絶対座標（ピクセル）です。
type PanelRect struct {
	ID     int `json:"id"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PanelInstruction は1コマ分の描写指示です。
type PanelInstruction struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Blueprint は1ページ分の構成案です。構成案の生成自体は外部の責務です。
type Blueprint struct {
	Layout    string             `json:"layout"`
	Reasoning string             `json:"reasoning,omitempty"`
	Panels    []PanelInstruction `json:"panels"`
}

// ChapterPage はチャプター内の1ページ分の構成案です。
type ChapterPage struct {
	PageID int                `json:"pageId"`
	Layout string             `json:"layout"`
	Panels []PanelInstruction `json:"panels"`
}

// ChapterBlueprint は複数ページにまたがる構成案です。
type ChapterBlueprint struct {
	ChapterSummary string        `json:"chapterSummary"`
	Pages          []ChapterPage `json:"pages"`
}

// ExpectedPanels はレイアウトが要求するパネル数を返します。未知のレイアウトは splash として数えます。
func (b Blueprint) ExpectedPanels() int {
	kind, ok := ParseLayout(b.Layout)
	if !ok {
		kind = LayoutSplash
	}
	return kind.PanelCount()
}

// Blueprint は ChapterPage を単一ページの構成案に変換します。
func (p ChapterPage) Blueprint() Blueprint {
	return Blueprint{Layout: p.Layout, Panels: p.Panels}
}

// DescriptionFor は指定 ID のパネルの描写を返します。
// 該当する指示が無い、または描写が空の場合は DefaultPanelDescription を返します。
func (b Blueprint) DescriptionFor(id int) string {
	for _, p := range b.Panels {
		if p.ID == id && strings.TrimSpace(p.Description) != "" {
			return p.Description
		}
	}
	return DefaultPanelDescription
}

// Instructions はレイアウトの各パネル矩形に対応する描写指示を、矩形と同じ順序で返します。
// 余分な指示は無視されます。
func (b Blueprint) Instructions(rects []PanelRect) []PanelInstruction {
	out := make([]PanelInstruction, 0, len(rects))
	for _, r := range rects {
		out = append(out, PanelInstruction{ID: r.ID, Description: b.DescriptionFor(r.ID)})
	}
	return out
}
