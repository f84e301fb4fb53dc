package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"math"

	"github.com/shouni/go-manga-page-kit/pkg/director"
	"github.com/shouni/go-manga-page-kit/pkg/domain"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultBorderWidth はパネル枠線の太さです。
const DefaultBorderWidth = 5

// Compositor はパネル画像をページキャンバスに合成します。
type Compositor struct {
	Width       int
	Height      int
	BorderWidth int
	Background  color.Color
	BorderColor color.Color
}

// NewCompositor は既定のページ寸法と白背景・黒枠の Compositor を生成します。
func NewCompositor() *Compositor {
	return &Compositor{
		Width:       director.CanvasWidth,
		Height:      director.CanvasHeight,
		BorderWidth: DefaultBorderWidth,
		Background:  color.White,
		BorderColor: color.Black,
	}
}

// AssemblePage は既定の Compositor でページを合成します。
func AssemblePage(rects []domain.PanelRect, images map[int]*domain.GeneratedImage) *image.RGBA {
	return NewCompositor().Assemble(rects, images)
}

// Assemble は各パネル矩形に対応する画像をカバーフィットで描画し、最後に枠線を引きます。
// 画像が無い、または復号できないパネルは警告を出して空白のまま残します。
func (c *Compositor) Assemble(rects []domain.PanelRect, images map[int]*domain.GeneratedImage) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)

	for _, r := range rects {
		target := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)

		if img, ok := images[r.ID]; ok && img != nil && len(img.Data) > 0 {
			if err := drawCover(canvas, target, img.Data); err != nil {
				slog.Warn("パネル画像を描画できないため空白にします", "panel", r.ID, "error", err)
			}
		} else {
			slog.Warn("パネル画像が無いため空白にします", "panel", r.ID)
		}

		strokeRect(canvas, target, c.BorderWidth, c.BorderColor)
	}
	return canvas
}

// drawCover は画像を復号し、target をすき間なく埋めるように中央で切り抜いて拡大縮小します。
func drawCover(dst draw.Image, target image.Rectangle, data []byte) error {
	if target.Empty() {
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("画像の復号に失敗しました: %w", err)
	}

	b := src.Bounds()
	crop := CoverCrop(b.Dx(), b.Dy(), target.Dx(), target.Dy()).Add(b.Min)
	draw.CatmullRom.Scale(dst, target, src, crop, draw.Src, nil)
	return nil
}

// CoverCrop はカバーフィットで使う元画像側の切り抜き範囲を返します。
// 元画像が相対的に横長なら左右を均等に、縦長なら上下を均等に削ります。
func CoverCrop(srcW, srcH, dstW, dstH int) image.Rectangle {
	full := image.Rect(0, 0, srcW, srcH)
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return full
	}

	srcRatio := float64(srcW) / float64(srcH)
	dstRatio := float64(dstW) / float64(dstH)

	if srcRatio > dstRatio {
		w := int(math.Round(float64(srcH) * dstRatio))
		x := (srcW - w) / 2
		return image.Rect(x, 0, x+w, srcH)
	}
	h := int(math.Round(float64(srcW) / dstRatio))
	y := (srcH - h) / 2
	return image.Rect(0, y, srcW, y+h)
}

// strokeRect は矩形の辺を中心に width の太さで枠線を描きます。
func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	if width <= 0 {
		return
	}
	half := width / 2
	outer := image.Rect(r.Min.X-half, r.Min.Y-half, r.Max.X+width-half, r.Max.Y+width-half)
	inner := image.Rect(r.Min.X+width-half, r.Min.Y+width-half, r.Max.X-half, r.Max.Y-half)
	src := image.NewUniform(c)

	bands := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	}
	for _, band := range bands {
		draw.Draw(dst, band.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// EncodePNG は合成結果を PNG にエンコードします。
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("PNGのエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
