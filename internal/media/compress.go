// Package media shrinks uploaded pictures so they fit the key-value quota
// as inline data URIs.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Preset bounds the output width and sets the JPEG quality.
type Preset struct {
	MaxWidth int
	Quality  int
}

var (
	// Standard is tried first.
	Standard = Preset{MaxWidth: 1200, Quality: 70}
	// Reduced is the fallback when the Standard result does not fit.
	Reduced = Preset{MaxWidth: 800, Quality: 50}
)

// Compressible reports whether uploads of this MIME type are re-encoded.
// GIFs keep their animation and videos are stored as sent.
func Compressible(mime string) bool {
	switch mime {
	case "image/png", "image/jpeg", "image/webp", "image/bmp":
		return true
	}
	return false
}

// Compress decodes data, scales it down to p.MaxWidth keeping the aspect
// ratio, and encodes it as JPEG. Transparent areas become white.
func Compress(data []byte, p Preset) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode: %w", err)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("media: empty image")
	}
	if p.MaxWidth > 0 && w > p.MaxWidth {
		h = max(1, h*p.MaxWidth/w)
		w = p.MaxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("media: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI inlines data under the given MIME type.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
