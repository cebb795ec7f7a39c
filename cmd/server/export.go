package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hazyhaar/vaxatlas/pkg/atlas"
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/export"
)

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	level := fs.String("level", "nation", "nation, region or department")
	target := fs.String("target", "", "region name or department code")
	name := fs.String("name", "", "department name, for the name fallback")
	indicators := fs.String("indicators", "", "comma-separated indicators (default: all meaningful)")
	format := fs.String("format", "xlsx", "xlsx or csv")
	out := fs.String("out", "", "output file (default stdout)")
	fs.Parse(args)

	loadEnv()
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	t, err := targetFor(*level, *target, *name)
	if err != nil {
		fatal(logger, "target", err)
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		fatal(logger, "format", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a := atlas.New(logger, atlas.Options{MaxParallel: cfg.MaxParallel})
	if err := a.Load(ctx, cfg.Sources); err != nil {
		logger.Warn("some sources did not load", "error", err)
	}

	s := a.Stats(t, splitIndicators(*indicators))
	if s.NoData {
		logger.Warn("no matching rows", "level", s.Level, "target", s.DisplayName, "suggestions", s.Suggestions)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			fatal(logger, "create output", err)
		}
		defer file.Close()
		w = file
	}
	if err := export.Write(w, s, f); err != nil {
		fatal(logger, "export", err)
	}
	logger.Info("export written", "level", s.Level, "target", s.DisplayName, "years", len(s.Years), "indicators", len(s.Indicators))
}

// targetFor maps CLI flags to a match target.
func targetFor(level, target, name string) (coverage.Target, error) {
	g, ok := coverage.ParseGranularity(level)
	if !ok {
		return coverage.Target{}, fmt.Errorf("unknown level %q", level)
	}
	switch g {
	case coverage.Region:
		if strings.TrimSpace(target) == "" {
			return coverage.Target{}, fmt.Errorf("--target region name required")
		}
		return coverage.RegionTarget(target), nil
	case coverage.Department:
		if strings.TrimSpace(target) == "" && strings.TrimSpace(name) == "" {
			return coverage.Target{}, fmt.Errorf("--target department code or --name required")
		}
		return coverage.DepartmentTarget(target, name), nil
	default:
		return coverage.NationTarget(), nil
	}
}

func splitIndicators(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
