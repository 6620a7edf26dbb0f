package main

import (
	"log"

	"github.com/cppbuild/cppbuild/internal/config"
	"github.com/cppbuild/cppbuild/internal/directive"
)

const defaultConfigPath = "cppbuild.ini"

// loadConfig reads the project file and overlays CLI overrides. When
// scanDirectives is set it also walks the source tree for
// build-directive comments, as build and plan need but clean does not
// (clean must succeed even before any source tree exists).
func loadConfig(args []string, logger *log.Logger, scanDirectives bool) (config.BuildConfig, error) {
	ov, err := config.ParseArgs(args)
	if err != nil {
		return config.BuildConfig{}, err
	}

	path := defaultConfigPath
	if ov.ConfigPath != nil {
		path = *ov.ConfigPath
	}

	cfg, warnings, err := config.Load(path)
	if err != nil {
		return config.BuildConfig{}, err
	}
	config.Apply(&cfg, ov)

	for _, w := range warnings {
		if cfg.Verbose {
			logger.Printf("[warn] %s", w.String())
		}
	}

	if !scanDirectives {
		return cfg, nil
	}

	directives, err := directive.Parse(cfg.SourceRoot, cfg.Verbose, logger)
	if err != nil {
		return config.BuildConfig{}, err
	}
	cfg.Directives = directives

	return cfg, nil
}
