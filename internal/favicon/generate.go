package favicon

import (
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ur65/ico-favicon/internal/resample"
)

// ErrSourceNotFound is returned by Generate when the high resolution source
// PNG is missing.
var ErrSourceNotFound = errors.New("source file not found")

// Generator renders favicon.ico files from a single high resolution PNG.
type Generator struct {
	Root string
	// Filter defaults to resample.Lanczos.
	Filter resample.Filter
	Log    logrus.FieldLogger
}

// Generate resizes GenerateSource to every GenerateResolutions size and
// writes the set to each of GenerateOutputs, creating parent directories.
// All outputs hold identical bytes.
func (g *Generator) Generate() (*Result, error) {
	log := logger(g.Log)

	src := resolve(g.Root, GenerateSource)
	ok, err := exists(src)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.WithField("path", src).Errorf("Source file %s not found", src)
		return nil, errors.Wrap(ErrSourceNotFound, src)
	}

	img, err := decodeImage(src)
	if err != nil {
		return nil, err
	}
	size := resolutionOf(img)
	log.WithField("path", src).Infof("Loaded source image: %s with size (%d, %d)", src, size.Width, size.Height)

	res := &Result{}
	imgs := make([]image.Image, 0, len(GenerateResolutions))
	for _, r := range GenerateResolutions {
		resized, err := resample.Resize(img, r.Width, r.Height, g.Filter)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resize to %s", r)
		}
		imgs = append(imgs, resized)
		res.Sizes = append(res.Sizes, r)
		log.WithField("filter", g.Filter.String()).Infof("Created %s version", r)
	}

	data, err := encodeICO(imgs)
	if err != nil {
		return nil, err
	}

	for _, rel := range GenerateOutputs {
		out := resolve(g.Root, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", filepath.Dir(out))
		}
		if err := writeFile(out, data); err != nil {
			return nil, err
		}
		res.Paths = append(res.Paths, out)
		log.WithField("path", out).Infof("Created %s with sizes %v", out, res.Sizes)
	}

	return res, nil
}
