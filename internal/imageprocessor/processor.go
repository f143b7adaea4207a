// Package imageprocessor downsizes listing photos before they are stored.
package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxDimension = 1600
	defaultQuality      = 85
)

// Processor ограничивает размер фото по большей стороне.
type Processor struct {
	maxWidth  int
	maxHeight int
	quality   int // JPEG quality (1-100)
}

func NewProcessor(maxDimension, quality int) *Processor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	return &Processor{
		maxWidth:  maxDimension,
		maxHeight: maxDimension,
		quality:   quality,
	}
}

// Fit returns data re-encoded at most maxDimension on each side. Images that
// already fit, or formats it cannot decode (webp), come back untouched with
// resized=false.
func (p *Processor) Fit(data []byte) (out []byte, resized bool, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return data, false, nil
	}
	if cfg.Width <= p.maxWidth && cfg.Height <= p.maxHeight {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	scaled := p.resize(img, p.maxWidth, p.maxHeight)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, false, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, scaled); err != nil {
			return nil, false, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return data, false, nil
	}
	return buf.Bytes(), true, nil
}

// resize сохраняет пропорции
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	ratio := float64(bounds.Dx()) / float64(bounds.Dy())

	newWidth, newHeight := maxWidth, maxHeight
	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
