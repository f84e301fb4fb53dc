package domain

import (
	"encoding/json"
	"testing"
)

func TestParseLayout(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  PageLayout
		ok    bool
	}{
		{"小文字のgridを解釈するのだ", "grid", LayoutGrid, true},
		{"大文字混じりでも解釈するのだ", "  CineMatic ", LayoutCinematic, true},
		{"splashを解釈するのだ", "Splash", LayoutSplash, true},
		{"未知の識別子はfalseなのだ", "webtoon", "", false},
		{"空文字はfalseなのだ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLayout(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("期待値 (%q, %v), 実際の値 (%q, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestBlueprint_Instructions(t *testing.T) {
	t.Run("足りない描写は汎用の描写で補うのだ", func(t *testing.T) {
		bp := Blueprint{
			Layout: "grid",
			Panels: []PanelInstruction{
				{ID: 2, Description: "A swordsman draws his blade."},
				{ID: 3, Description: "   "},
				{ID: 9, Description: "余分な指示なのだ"},
			},
		}
		rects := []PanelRect{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

		got := bp.Instructions(rects)
		if len(got) != 4 {
			t.Fatalf("期待値 4, 実際の値 %d", len(got))
		}
		want := []string{DefaultPanelDescription, "A swordsman draws his blade.", DefaultPanelDescription, DefaultPanelDescription}
		for i, w := range want {
			if got[i].ID != rects[i].ID {
				t.Errorf("[%d] ID 期待値 %d, 実際の値 %d", i, rects[i].ID, got[i].ID)
			}
			if got[i].Description != w {
				t.Errorf("[%d] 期待値 %q, 実際の値 %q", i, w, got[i].Description)
			}
		}
	})
}

func TestChapterBlueprint_JSON(t *testing.T) {
	t.Run("チャプター形式の構成案をパースできるのだ", func(t *testing.T) {
		inputJSON := `{
			"chapterSummary": "嵐の夜",
			"pages": [
				{"pageId": 1, "layout": "cinematic", "panels": [{"id": 1, "description": "Rain hits the castle."}]},
				{"pageId": 2, "layout": "splash", "panels": []}
			]
		}`

		var ch ChapterBlueprint
		if err := json.Unmarshal([]byte(inputJSON), &ch); err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}
		if ch.ChapterSummary != "嵐の夜" || len(ch.Pages) != 2 {
			t.Fatalf("チャプターが正しくパースされていないのだ: %+v", ch)
		}
		bp := ch.Pages[0].Blueprint()
		if bp.Layout != "cinematic" || bp.DescriptionFor(1) != "Rain hits the castle." {
			t.Errorf("ページの変換結果が違うのだ: %+v", bp)
		}
	})
}

func TestBlueprint_ExpectedPanels(t *testing.T) {
	tests := []struct {
		layout string
		want   int
	}{
		{"grid", 4},
		{" Cinematic ", 3},
		{"splash", 1},
		{"weird", 1},
	}
	for _, tt := range tests {
		t.Run("レイアウト"+tt.layout+"のパネル数なのだ", func(t *testing.T) {
			if got := (Blueprint{Layout: tt.layout}).ExpectedPanels(); got != tt.want {
				t.Errorf("期待値 %d, 実際の値 %d", tt.want, got)
			}
		})
	}
}

func TestGeneratedImage_IsPlaceholder(t *testing.T) {
	var nilImg *GeneratedImage
	if nilImg.IsPlaceholder() {
		t.Error("nil はプレースホルダではないのだ")
	}
	if !(&GeneratedImage{Source: SourcePlaceholder}).IsPlaceholder() {
		t.Error("placeholder 由来の画像を判定できていないのだ")
	}
}
