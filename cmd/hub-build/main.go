package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/meltano/hub-api/pkg/ingest"
	"github.com/meltano/hub-api/pkg/storage"
)

// Config holds the build command configuration
type Config struct {
	DataDir   string
	DBPath    string
	SourceURL string
	ExitZero  bool
	LogLevel  string
}

// hub-build ingests the hub's YAML plugin definitions into a fresh SQLite
// catalog and prints a Markdown report of every document that failed
// validation.
func main() {
	config := parseFlags()
	logger := setupLogger(config.LogLevel)

	// Always rebuild from scratch
	if err := os.Remove(config.DBPath); err != nil && !os.IsNotExist(err) {
		logger.Fatalf("Failed to remove existing catalog %s: %v", config.DBPath, err)
	}

	store, err := storage.Open(config.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open catalog database: %v", err)
	}
	defer store.Close()

	loader := ingest.NewLoader(config.DataDir, logger)
	if config.SourceURL != "" {
		loader.SetSourceURL(config.SourceURL)
	}

	result, err := loader.Load(context.Background(), store)
	if err != nil {
		logger.Fatalf("Build failed: %v", err)
	}

	if result.HasErrors() {
		fmt.Print(result.ToMarkdown())
		if !config.ExitZero {
			os.Exit(1)
		}
	}
}

func parseFlags() Config {
	var config Config

	flag.StringVar(&config.DataDir, "data-dir", "_data", "Directory holding the hub YAML data")
	flag.StringVar(&config.DBPath, "db", "plugins.db", "Path of the SQLite catalog to build")
	flag.StringVar(&config.SourceURL, "source-url", "", "Base URL for links in the error report")
	flag.BoolVar(&config.ExitZero, "exit-zero", false, "Exit 0 even when documents failed validation")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	return config
}

func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
