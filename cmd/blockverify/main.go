// Command blockverify walks a data directory and checks that every block
// file decodes: valid file header, decodable data header, and a payload
// holding exactly the declared number of samples.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/perfdata/blockstore/block"
	"github.com/perfdata/blockstore/config"
	"github.com/perfdata/blockstore/core"
)

func main() {
	dataDir := flag.String("data-dir", "", "Directory containing block files (overrides config)")
	configPath := flag.String("config", "", "Optional path to a YAML config file")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	dir := cfg.Store.DataDir
	if *dataDir != "" {
		dir = *dataDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", dir, err)
		os.Exit(1)
	}

	var checked, failed atomic.Uint64
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), core.BlockFileSuffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			checked.Add(1)
			if err := verifyBlock(path, logger); err != nil {
				failed.Add(1)
				fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
			}
			return nil
		})
	}
	// Failures are reported per file, never returned, so Wait cannot error.
	_ = g.Wait()

	fmt.Printf("checked %d block file(s), %d failed\n", checked.Load(), failed.Load())
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func verifyBlock(path string, logger *slog.Logger) error {
	r, err := block.Open(block.ReaderOptions{FilePath: path, Logger: logger})
	if err != nil {
		return err
	}
	defer r.Close()

	samples, err := r.Samples()
	if err != nil {
		return err
	}
	if uint32(len(samples)) != r.Header().DataCount {
		return fmt.Errorf("payload holds %d samples, header declares %d", len(samples), r.Header().DataCount)
	}
	return nil
}
