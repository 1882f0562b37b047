package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	ico "github.com/ur65/ico-favicon"
	"github.com/ur65/ico-favicon/internal/config"
	"github.com/ur65/ico-favicon/internal/logging"
)

var (
	outdir     string
	configFile string
)

func init() {
	flag.StringVar(&outdir, "o", ".", "output directory")
	flag.StringVar(&configFile, "config", "", "YAML configuration file")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: ico2png [-o OUTDIR] [-config FILE] ICO_FILE")
		fmt.Fprintln(os.Stderr, "example: ico2png -o ./out ./public/favicon.ico")
		os.Exit(2)
	}
}

// extract writes every image of the ICO file at icopath into dir as
// <base>-<NN>-<W>x<H>.png, NN being the 1-based entry index, and returns
// the written paths in directory order.
func extract(icopath, dir string, log logrus.FieldLogger) ([]string, error) {
	data, err := os.ReadFile(icopath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read icon")
	}

	es, err := ico.ReadDirectory(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	imgs, err := ico.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	base := strings.TrimSuffix(filepath.Base(icopath), filepath.Ext(icopath))
	paths := make([]string, len(imgs))
	for i, img := range imgs {
		e := es[i]
		log.WithFields(logrus.Fields{
			"index":  i,
			"size":   fmt.Sprintf("%dx%d", e.Width, e.Height),
			"format": e.Format.String(),
			"bytes":  e.Size,
		}).Info("Found icon entry")

		path := filepath.Join(dir, fmt.Sprintf("%s-%02d-%dx%d.png", base, i+1, e.Width, e.Height))
		if err := writePNG(path, img); err != nil {
			return nil, err
		}
		paths[i] = path
	}

	log.WithField("dir", dir).Infof("Extracted %d images from %s", len(imgs), icopath)

	return paths, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create image file")
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}

	return f.Close()
}

func run(log logrus.FieldLogger) error {
	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
	}

	_, err := extract(args[0], outdir, log)
	return err
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logging.New(cfg.Logging, os.Stderr)
	if err := run(log); err != nil {
		log.Fatal(err)
	}
}
