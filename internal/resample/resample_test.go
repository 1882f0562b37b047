package resample

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	return img
}

func TestResize(t *testing.T) {
	src := getTestImage(512, 512)

	for _, f := range []Filter{Lanczos, CatmullRom, Bilinear, NearestNeighbor} {
		t.Run(f.String(), func(t *testing.T) {
			for _, size := range []int{16, 32, 48, 64, 128} {
				img, err := Resize(src, size, size, f)
				require.NoError(t, err)
				assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds())

				// a uniform image stays uniform
				c := img.NRGBAAt(size/2, size/2)
				assert.Equal(t, uint8(255), c.R)
				assert.Equal(t, uint8(255), c.A)
			}
		})
	}
}

func TestResizeErrors(t *testing.T) {
	_, err := Resize(nil, 16, 16, Lanczos)
	assert.Error(t, err, "nil image should fail")

	_, err = Resize(getTestImage(8, 8), 0, 16, Lanczos)
	assert.Error(t, err, "zero width should fail")

	_, err = Resize(getTestImage(8, 8), 16, 16, Filter(42))
	assert.Error(t, err, "unknown filter should fail")
}

func TestResizeIsDeterministic(t *testing.T) {
	src := getTestImage(100, 60)

	a, err := Resize(src, 32, 32, Lanczos)
	require.NoError(t, err)
	b, err := Resize(src, 32, 32, Lanczos)
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		want    Filter
		wantErr bool
	}{
		{"lanczos", Lanczos, false},
		{"LANCZOS", Lanczos, false},
		{" catmullrom ", CatmullRom, false},
		{"bilinear", Bilinear, false},
		{"nearest", NearestNeighbor, false},
		{"bicubic", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestToNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, src, ToNRGBA(src), "origin NRGBA is returned unchanged")

	sub := getTestImage(8, 8).(*image.RGBA).SubImage(image.Rect(2, 2, 6, 6))
	n := ToNRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 4, 4), n.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, n.NRGBAAt(0, 0))

	half := image.NewRGBA(image.Rect(0, 0, 1, 1))
	half.SetRGBA(0, 0, color.RGBA{R: 128, A: 128})
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, ToNRGBA(half).NRGBAAt(0, 0))
}
