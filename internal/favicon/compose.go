package favicon

import (
	"image"
	"strings"

	"github.com/sirupsen/logrus"

	ico "github.com/ur65/ico-favicon"
	"github.com/ur65/ico-favicon/internal/resample"
)

// Composer packs the existing favicon-NxN.png files into one favicon.ico.
type Composer struct {
	Root string
	Log  logrus.FieldLogger
}

// Compose collects every PNG in ComposeResolutions that exists, skipping
// missing ones and ones larger than ico.MaxSize, and writes them to
// ComposeOutput. Finding none is not an
// error: nothing is written and the Result has no paths.
func (c *Composer) Compose() (*Result, error) {
	log := logger(c.Log)
	res := &Result{}

	var imgs []image.Image
	for _, want := range ComposeResolutions {
		path := pngPath(c.Root, want)

		ok, err := exists(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.WithField("path", path).Warnf("%s does not exist", path)
			continue
		}

		src, err := decodeImage(path)
		if err != nil {
			return nil, err
		}

		img := resample.ToNRGBA(src)
		got := resolutionOf(img)
		if got.Width > ico.MaxSize || got.Height > ico.MaxSize {
			log.WithFields(logrus.Fields{
				"path":   path,
				"actual": got.String(),
			}).Warnf("Skipping %s, icons are limited to %dx%d", path, ico.MaxSize, ico.MaxSize)
			continue
		}
		if got != want {
			log.WithFields(logrus.Fields{
				"path":     path,
				"expected": want.String(),
				"actual":   got.String(),
			}).Warn("Image size does not match its file name, keeping actual size")
		}

		imgs = append(imgs, img)
		res.Sizes = append(res.Sizes, got)
	}

	if len(imgs) == 0 {
		log.Info("No valid PNG files found")
		return res, nil
	}

	data, err := encodeICO(imgs)
	if err != nil {
		return nil, err
	}

	out := resolve(c.Root, ComposeOutput)
	if err := writeFile(out, data); err != nil {
		return nil, err
	}
	res.Paths = []string{out}

	names := make([]string, len(res.Sizes))
	for i, s := range res.Sizes {
		names[i] = s.String()
	}
	log.WithField("path", out).Infof("Created favicon.ico with %d sizes: %s", len(imgs), strings.Join(names, ", "))

	return res, nil
}
