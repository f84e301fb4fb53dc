package parser

import "regexp"

var (
	// MarkdownImageRegex は "![alt](" 形式の Markdown 画像記法の開始部分を特定します。
	MarkdownImageRegex = regexp.MustCompile(`!\[.*?\]\(`)

	// RawURLRegex は空白・引用符・山括弧を含まない http(s) URL の連続部分をキャプチャします。
	RawURLRegex = regexp.MustCompile(`https?://[^\s"<>]+`)

	// TrailingPunctuationRegex は URL 末尾に付着した文末記号に一致します。
	TrailingPunctuationRegex = regexp.MustCompile(`[.,;!?]+$`)
)
