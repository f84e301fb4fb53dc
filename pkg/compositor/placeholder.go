package compositor

import (
	"image"
	"image/color"

	"github.com/shouni/go-manga-page-kit/pkg/domain"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// PlaceholderSize はプレースホルダ画像の一辺の長さです。
	PlaceholderSize = 512
	// PlaceholderLabel はプレースホルダ中央に描く文字列です。
	PlaceholderLabel = "error"
)

var placeholderGray = color.Gray{Y: 128}

// NewPlaceholder は生成に失敗したパネルの代わりに使う灰色の画像を返します。
func NewPlaceholder() (*domain.GeneratedImage, error) {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderGray), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	labelWidth := d.MeasureString(PlaceholderLabel).Ceil()
	x := (PlaceholderSize - labelWidth) / 2
	y := (PlaceholderSize + basicfont.Face7x13.Ascent) / 2
	d.Dot = fixed.P(x, y)
	d.DrawString(PlaceholderLabel)

	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &domain.GeneratedImage{
		Data:     data,
		MimeType: "image/png",
		Width:    PlaceholderSize,
		Height:   PlaceholderSize,
		Source:   domain.SourcePlaceholder,
	}, nil
}
