package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ur65/ico-favicon/internal/config"
	"github.com/ur65/ico-favicon/internal/favicon"
	"github.com/ur65/ico-favicon/internal/logging"
	"github.com/ur65/ico-favicon/internal/resample"
)

var (
	configFile string
	root       string
)

func init() {
	flag.StringVar(&configFile, "config", "", "YAML configuration file")
	flag.StringVar(&root, "C", "", "site root containing public/ (overrides config)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: favicon-generate [-config FILE] [-C ROOT]")
		fmt.Fprintln(os.Stderr, "renders public/favicons/favicon-512x512.png into public/favicon.ico and public/favicons/favicon.ico")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func run(cfg *config.Config, log logrus.FieldLogger) error {
	filter, err := resample.ParseFilter(cfg.Generator.Filter)
	if err != nil {
		return err
	}

	g := &favicon.Generator{Root: cfg.Root, Filter: filter, Log: log}
	_, err = g.Generate()
	return err
}

// exitCode maps the result of run to the process exit status. A missing
// source has already been logged by the generator.
func exitCode(err error, log logrus.FieldLogger) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, favicon.ErrSourceNotFound) {
		log.Error(err)
	}
	return 1
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if root != "" {
		cfg.Root = root
	}

	log := logging.New(cfg.Logging, os.Stderr)
	os.Exit(exitCode(run(cfg, log), log))
}
