// Package media prepares uploaded images before they reach storage.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// Downscale shrinks JPEG and PNG images so neither side exceeds maxPx,
// keeping the aspect ratio and the original format. Anything else, including
// images already small enough, is returned unchanged.
func Downscale(data []byte, maxPx int) ([]byte, error) {
	if maxPx <= 0 || len(data) == 0 {
		return data, nil
	}

	var decode func([]byte) (image.Image, error)
	var encode func(*bytes.Buffer, image.Image) error
	switch http.DetectContentType(data) {
	case "image/jpeg":
		decode = func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) }
		encode = func(w *bytes.Buffer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
		}
	case "image/png":
		decode = func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }
		encode = func(w *bytes.Buffer, img image.Image) error { return png.Encode(w, img) }
	default:
		return data, nil
	}

	src, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	dst, resized := fit(src, maxPx)
	if !resized {
		return data, nil
	}

	var buf bytes.Buffer
	if err := encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxPx int) (image.Image, bool) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxPx && h <= maxPx {
		return src, false
	}
	scale := math.Min(float64(maxPx)/float64(w), float64(maxPx)/float64(h))
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst, true
}
