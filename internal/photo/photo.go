package photo

import (
	"bytes"
	"errors"
	"image"
	stddraw "image/draw"
	_ "image/jpeg"
	"image/png"
	"net/http"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const (
	targetSize = 512
	maxSide    = 4096
)

var (
	ErrUnsupported = errors.New("photo must be png, jpeg, or webp")
	ErrTooLarge    = errors.New("photo dimensions exceed 4096x4096")
)

// Normalize center-crops raw to a square and scales it to 512x512 PNG.
func Normalize(raw []byte) ([]byte, string, error) {
	if len(raw) == 0 {
		return nil, "", errors.New("photo file is empty")
	}
	switch http.DetectContentType(raw) {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, "", ErrUnsupported
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		webpCfg, webpErr := webp.DecodeConfig(bytes.NewReader(raw))
		if webpErr != nil {
			return nil, "", ErrUnsupported
		}
		cfg = webpCfg
	}
	if cfg.Width > maxSide || cfg.Height > maxSide {
		return nil, "", ErrTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		decoded, decodeErr := webp.Decode(bytes.NewReader(raw))
		if decodeErr != nil {
			return nil, "", ErrUnsupported
		}
		img = decoded
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, "", errors.New("invalid image dimensions")
	}
	side := min(width, height)
	offset := image.Point{X: bounds.Min.X + (width-side)/2, Y: bounds.Min.Y + (height-side)/2}

	square := image.NewRGBA(image.Rect(0, 0, side, side))
	stddraw.Draw(square, square.Bounds(), img, offset, stddraw.Src)

	resized := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), square, square.Bounds(), xdraw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, resized); err != nil {
		return nil, "", errors.New("unable to encode photo")
	}
	return out.Bytes(), "image/png", nil
}
