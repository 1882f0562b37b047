// Package resample resizes images and normalizes them to 4-channel NRGBA.
package resample

import (
	"image"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// Filter selects the interpolation used by Resize.
type Filter int

const (
	// Lanczos is Lanczos3 resampling, the highest quality filter.
	Lanczos Filter = iota
	CatmullRom
	Bilinear
	NearestNeighbor
)

var filterNames = map[Filter]string{
	Lanczos:         "lanczos",
	CatmullRom:      "catmullrom",
	Bilinear:        "bilinear",
	NearestNeighbor: "nearest",
}

func (f Filter) String() string {
	if s, ok := filterNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFilter returns the filter with the given name. Matching is case
// insensitive.
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, s := range filterNames {
		if s == name {
			return f, nil
		}
	}
	return 0, errors.Errorf("unknown resample filter %q", name)
}

// Resize scales img to exactly width x height and returns it as NRGBA.
func Resize(img image.Image, width, height int, f Filter) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}

	var scaler xdraw.Scaler
	switch f {
	case Lanczos:
		return ToNRGBA(resize.Resize(uint(width), uint(height), img, resize.Lanczos3)), nil
	case CatmullRom:
		scaler = xdraw.CatmullRom
	case Bilinear:
		scaler = xdraw.ApproxBiLinear
	case NearestNeighbor:
		scaler = xdraw.NearestNeighbor
	default:
		return nil, errors.Errorf("unsupported resample filter: %d", f)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Src, nil)

	return dst, nil
}

// ToNRGBA converts img to non-premultiplied RGBA with bounds at the origin.
// An NRGBA image already at the origin is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Rect, img, b.Min, xdraw.Src)

	return dst
}
