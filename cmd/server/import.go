package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/vaxatlas/pkg/importer"
)

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	source := fs.String("source", "", "adapter ID to import (e.g. spf-couverture-regions)")
	all := fs.Bool("all", false, "import all available sources")
	url := fs.String("url", "", "override and persist the source URL (with --source)")
	dataDir := fs.String("data-dir", "", "output data directory (default $VAXATLAS_DATA_DIR or data)")
	fs.Parse(args)

	loadEnv()
	if *dataDir == "" {
		*dataDir = os.Getenv("VAXATLAS_DATA_DIR")
	}
	if *dataDir == "" {
		*dataDir = "data"
	}
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", *dataDir, err)
		os.Exit(1)
	}

	ledger, err := importer.OpenLedger(filepath.Join(*dataDir, "sources.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open sources.db: %v\n", err)
		os.Exit(1)
	}
	defer ledger.Close()

	if err := ledger.Seed(importer.All()); err != nil {
		fmt.Fprintf(os.Stderr, "seed sources: %v\n", err)
		os.Exit(1)
	}

	if !*all && *source == "" {
		listSources(ledger)
		return
	}
	if *all && *url != "" {
		fmt.Fprintln(os.Stderr, "--url needs --source")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *all {
		failed := 0
		for _, a := range importer.All() {
			if !runImport(ctx, ledger, a, "", *dataDir) {
				failed++
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	a, err := importer.Get(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		listSources(ledger)
		os.Exit(1)
	}
	if !runImport(ctx, ledger, a, *url, *dataDir) {
		os.Exit(1)
	}
}

func runImport(ctx context.Context, ledger *importer.Ledger, a importer.Adapter, url, dataDir string) bool {
	fmt.Printf("[%s] importing...\n", a.ID())
	sum, err := importer.Run(ctx, ledger, a, url, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] ERROR: %v\n", a.ID(), err)
		return false
	}
	fmt.Printf("[%s] OK -> %s (%d rows, version %s)\n", a.ID(), filepath.Join(dataDir, a.DatasetID()), sum.Rows, sum.Version)
	return true
}

func listSources(ledger *importer.Ledger) {
	entries, err := ledger.Entries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list sources: %v\n", err)
		return
	}
	fmt.Println("Available sources:")
	fmt.Println()
	for _, e := range entries {
		var notes []string
		if e.Overridden {
			notes = append(notes, "url overridden")
		}
		if e.Check != nil {
			notes = append(notes, fmt.Sprintf("HTTP %d", e.Check.Status))
		}
		if e.Import != nil {
			notes = append(notes, fmt.Sprintf("imported %s, %d rows", e.Import.At.Format("2006-01-02"), e.Import.Rows))
		}
		suffix := ""
		if len(notes) > 0 {
			suffix = "  [" + strings.Join(notes, "; ") + "]"
		}
		fmt.Printf("  %-28s  %s  (-> %s)%s\n", e.Adapter, e.Description, e.Dataset, suffix)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vaxatlas import --source <id> [--url <url>] [--data-dir <dir>]")
	fmt.Println("  vaxatlas import --all [--data-dir <dir>]")
}
