package parser

import "testing"

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"括弧を含まない生URLなのだ", "http://example.com/image.png", "http://example.com/image.png"},
		{"Markdown画像記法なのだ", "![alt](http://example.com/image.png)", "http://example.com/image.png"},
		{"生URLの末尾の対応した括弧は残すのだ", "http://example.com/image(1)", "http://example.com/image(1)"},
		{"Markdownの外側の括弧だけ取り除くのだ", "![alt](http://example.com/image(1))", "http://example.com/image(1)"},
		{"括弧で囲まれた生URLなのだ", "(See: http://example.com/image)", "http://example.com/image"},
		{"括弧とピリオドが連続するのだ", "(See: http://example.com/image.)", "http://example.com/image"},
		{"Markdown内の複数の入れ子括弧なのだ", "![alt](http://example.com/image(1)foo(2))", "http://example.com/image(1)foo(2)"},
		{"文末のピリオドを取り除くのだ", "Check this: http://example.com/image.png.", "http://example.com/image.png"},
		{"山括弧で囲まれたURLなのだ", "Here is the link: <http://example.com/image.png>", "http://example.com/image.png"},
		{"引用符で囲まれたURLなのだ", `Here is the link: "http://example.com/image.png"`, "http://example.com/image.png"},
		{"二重の入れ子括弧を保持するのだ", "![alt](https://example.com/image((1)).jpg)", "https://example.com/image((1)).jpg"},
		{"角括弧の閉じだけが余っているのだ", "[link: https://example.com/a.png]", "https://example.com/a.png"},
		{"閉じていないMarkdownは生URLにフォールバックするのだ", "![alt](https://example.com/broken(.png", "https://example.com/broken(.png"},
		{"文章中の最初のURLを採用するのだ", "first https://a.example/1.png then https://b.example/2.png", "https://a.example/1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractImageURL(tt.input)
			if !ok {
				t.Fatalf("URLが見つからなかったのだ: %q", tt.input)
			}
			if got != tt.want {
				t.Errorf("期待値 %q, 実際の値 %q", tt.want, got)
			}
		})
	}
}

func TestExtractImageURL_NotFound(t *testing.T) {
	for _, input := range []string{"", "画像は生成できませんでした。", "ftp://example.com/image.png", "![alt]()"} {
		t.Run("URLが無い入力なのだ:"+input, func(t *testing.T) {
			if got, ok := ExtractImageURL(input); ok {
				t.Errorf("URLは無いはずなのに %q が返ったのだ", got)
			}
		})
	}
}
