package parser

import "strings"

// ExtractImageURL はモデルが生成した自由記述テキストから画像 URL を抽出します。
// Markdown 画像記法を優先し、見つからなければ生の URL を探します。
// URL が見つからない場合は false を返します。
func ExtractImageURL(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	candidate := extractMarkdownURL(text)
	if candidate == "" {
		candidate = RawURLRegex.FindString(text)
	}
	if candidate == "" {
		return "", false
	}

	cleaned := trimURLTail(candidate)
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

// extractMarkdownURL は "![alt](" の直後から括弧の深さを数えながら走査し、
// 深さが 0 に戻る位置までを URL として返します。
// 正規表現では扱えない、URL 内部の入れ子括弧を保持するためです。
func extractMarkdownURL(text string) string {
	loc := MarkdownImageRegex.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	start := loc[1]
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			return text[start:i]
		}
	}
	// 閉じ括弧が見つからない場合は生 URL の探索に任せます。
	return ""
}

// trimURLTail は末尾の句読点と、対応する開き括弧を持たない閉じ括弧を取り除きます。
// 1文字削ると新たな末尾が露出するため、変化がなくなるまで繰り返します。
func trimURLTail(u string) string {
	for {
		before := u

		u = TrailingPunctuationRegex.ReplaceAllString(u, "")

		switch {
		case strings.HasSuffix(u, ")"):
			if strings.Count(u, ")") > strings.Count(u, "(") {
				u = u[:len(u)-1]
			}
		case strings.HasSuffix(u, "]"):
			if strings.Count(u, "]") > strings.Count(u, "[") {
				u = u[:len(u)-1]
			}
		}

		if u == before {
			return u
		}
	}
}
