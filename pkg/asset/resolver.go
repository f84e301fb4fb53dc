package asset

import (
	"fmt"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultPanelDir はパネル画像を格納するデフォルトのディレクトリ名です。
	DefaultPanelDir = "panels"
	// DefaultPanelFileName はパネル画像の共通のベースファイル名です。
	DefaultPanelFileName = "panel.png"
	// DefaultPageFileName は合成済みページ画像のファイル名です。
	DefaultPageFileName = "page.png"
	// DefaultManifestName は生成結果のマニフェストファイル名です。
	DefaultManifestName = "manifest.json"
	// pageDirPrefix はチャプター内の各ページのディレクトリ接頭辞です。
	pageDirPrefix = "page_"
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。index は1以上の整数である必要があります。
// 例: "path/to/image.png", 1 -> "path/to/image_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// PageDir はチャプター内の n ページ目の出力ディレクトリを返します。
// 例: "out", 2 -> "out/page_2"
func PageDir(outputDir string, pageNumber int) (string, error) {
	if pageNumber < 1 {
		return "", fmt.Errorf("ページ番号は1以上である必要があります: %d", pageNumber)
	}
	return ResolveOutputPath(outputDir, fmt.Sprintf("%s%d", pageDirPrefix, pageNumber))
}

// PanelPath はパネル ID に対応する画像の保存先を返します。
// 例: "out", 3 -> "out/panels/panel_3.png"
func PanelPath(outputDir string, panelID int) (string, error) {
	dir, err := ResolveOutputPath(outputDir, DefaultPanelDir)
	if err != nil {
		return "", err
	}
	base, err := ResolveOutputPath(dir, DefaultPanelFileName)
	if err != nil {
		return "", err
	}
	return GenerateIndexedPath(base, panelID)
}
