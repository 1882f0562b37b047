package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ur65/ico-favicon/internal/config"
	"github.com/ur65/ico-favicon/internal/favicon"
	"github.com/ur65/ico-favicon/internal/logging"
)

var (
	configFile string
	root       string
)

func init() {
	flag.StringVar(&configFile, "config", "", "YAML configuration file")
	flag.StringVar(&root, "C", "", "site root containing public/ (overrides config)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: favicon-compose [-config FILE] [-C ROOT]")
		fmt.Fprintln(os.Stderr, "packs public/favicons/favicon-{16,32,48}x{N}.png into public/favicons/favicon.ico")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func run(cfg *config.Config, log logrus.FieldLogger) error {
	c := &favicon.Composer{Root: cfg.Root, Log: log}
	_, err := c.Compose()
	return err
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
	if err := run(cfg, log); err != nil {
		log.Fatal(err)
	}
}
