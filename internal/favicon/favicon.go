// Package favicon builds multi-resolution favicon.ico files from the PNG
// images kept under public/favicons.
package favicon

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	ico "github.com/ur65/ico-favicon"
	_ "github.com/ur65/ico-favicon/internal/bmp"
)

// Paths relative to the site root.
const (
	FaviconDir     = "public/favicons"
	ComposeOutput  = "public/favicons/favicon.ico"
	GenerateSource = "public/favicons/favicon-512x512.png"
)

// GenerateOutputs are written by Generator, in order.
var GenerateOutputs = []string{
	"public/favicon.ico",
	"public/favicons/favicon.ico",
}

// Resolution is an image size in pixels.
type Resolution struct {
	Width  int
	Height int
}

func Square(n int) Resolution {
	return Resolution{Width: n, Height: n}
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

func resolutionOf(img image.Image) Resolution {
	b := img.Bounds()
	return Resolution{Width: b.Dx(), Height: b.Dy()}
}

var (
	// ComposeResolutions are the pre-rendered PNGs Composer looks for.
	ComposeResolutions = []Resolution{Square(16), Square(32), Square(48)}

	// GenerateResolutions are the sizes Generator renders from the source.
	GenerateResolutions = []Resolution{Square(16), Square(32), Square(48), Square(64), Square(128)}
)

// Result reports what a run wrote.
type Result struct {
	// Paths are the files written. Empty when nothing was written.
	Paths []string
	// Sizes are the entries stored in each file, in order.
	Sizes []Resolution
}

func resolve(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// pngPath returns the path of the pre-rendered PNG for r.
func pngPath(root string, r Resolution) string {
	return filepath.Join(resolve(root, FaviconDir), fmt.Sprintf("favicon-%s.png", r))
}

// exists reports whether path is present. Errors other than non-existence
// are returned.
func exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to stat %s", path)
	}
	return true, nil
}

// decodeImage decodes the image at path by its content rather than its
// extension, so a favicon-NxN.png holding BMP data is still read.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	return img, nil
}

// encodeICO encodes imgs with the first image as primary.
func encodeICO(imgs []image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := ico.Encode(buf, imgs[0], imgs[1:]...); err != nil {
		return nil, errors.Wrap(err, "failed to encode icon")
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func logger(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
