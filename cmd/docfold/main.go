// Command docfold converts layout JSON dumps and HTML documents to Markdown
// with table titles resolved.
//
// Usage:
//
//	docfold [flags] file...
//
// Each input produces one .md file next to it, or under -out when given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docfold/docfold"
	"github.com/docfold/docfold/render"
)

func main() {
	var (
		outDir      = flag.String("out", "", "output directory (default: next to each input)")
		useOCR      = flag.Bool("ocr", false, "OCR figure images into alt text (requires -tags ocr build)")
		sensitivity = flag.Float64("sensitivity", 1.0, "layout sensitivity in [0,1]; lower drops low-confidence elements")
		threshold   = flag.Float64("table-threshold", 0.0, "minimum table confidence in [0,1]; below it tables become text")
		captionDist = flag.Float64("caption-distance", 0.1, "max caption gap as a fraction of page height")
		pageBreaks  = flag.Bool("page-breaks", false, "emit a horizontal rule between pages")
		noTitles    = flag.Bool("no-titles", false, "skip table title resolution")
		records     = flag.Bool("records", false, "write flattened table records as .jsonl instead of Markdown")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: docfold [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	template := docfold.Open("").
		LayoutSensitivity(*sensitivity).
		TableThreshold(*threshold).
		CaptionDistance(*captionDist)
	if *useOCR {
		template = template.WithOCR()
	}
	if *pageBreaks {
		template = template.PageBreaks()
	}
	if *noTitles {
		template = template.WithoutTitles()
	}

	failures := 0
	if *records {
		failures = runRecords(flag.Args(), template, *outDir, logger)
	} else {
		failures = runMarkdown(flag.Args(), template, *outDir, logger)
	}

	if failures > 0 {
		logger.Error("conversion finished with failures", "failed", failures, "total", flag.NArg())
		os.Exit(1)
	}
	logger.Info("conversion complete", "documents", flag.NArg())
}

func runMarkdown(paths []string, template *docfold.Converter, outDir string, logger *slog.Logger) int {
	results := docfold.ConvertAllWith(context.Background(), paths, template)

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			logger.Error("conversion failed", "input", res.Path, "error", res.Err)
			failures++
			continue
		}
		for _, w := range res.Warnings {
			logger.Warn(w.Message, "input", res.Path, "code", w.Code)
		}

		out := outputPath(res.Path, outDir, ".md")
		if err := os.WriteFile(out, []byte(res.Markdown), 0644); err != nil {
			logger.Error("writing output failed", "output", out, "error", err)
			failures++
			continue
		}
		logger.Debug("converted", "input", res.Path, "output", out)
	}
	return failures
}

func runRecords(paths []string, template *docfold.Converter, outDir string, logger *slog.Logger) int {
	failures := 0
	for _, path := range paths {
		recs, warnings, err := template.WithSource(path).Records()
		if err != nil {
			logger.Error("conversion failed", "input", path, "error", err)
			failures++
			continue
		}
		for _, w := range warnings {
			logger.Warn(w.Message, "input", path, "code", w.Code)
		}

		out := outputPath(path, outDir, ".jsonl")
		f, err := os.Create(out)
		if err != nil {
			logger.Error("writing output failed", "output", out, "error", err)
			failures++
			continue
		}
		err = render.WriteJSONL(f, recs)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logger.Error("writing output failed", "output", out, "error", err)
			failures++
			continue
		}
		logger.Debug("converted", "input", path, "output", out, "records", len(recs))
	}
	return failures
}

// outputPath swaps the input's extension and relocates it under dir when set.
func outputPath(input, dir, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if dir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(dir, base)
}
