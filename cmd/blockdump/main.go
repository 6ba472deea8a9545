// Command blockdump prints the decoded data header of one or more persisted
// block files.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/perfdata/blockstore/block"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: blockdump [-v] <block-file> [<block-file> ...]")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tNAME\tTYPE\tSTART\tEND\tSOURCES\tDIMENSIONS\tCOUNT\tHEADER BYTES")

	exitCode := 0
	for _, path := range flag.Args() {
		r, err := block.Open(block.ReaderOptions{FilePath: path, Logger: logger})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			exitCode = 1
			continue
		}
		h := r.Header()
		sources := make([]string, 0, len(h.Sources))
		for _, s := range h.Sources {
			sources = append(sources, s.ID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			path,
			h.Name,
			h.DataType,
			h.StartTime.Format("2006-01-02 15:04:05.000"),
			h.EndTime.Format("2006-01-02 15:04:05.000"),
			strings.Join(sources, ","),
			strings.Join(h.Dimensions.Names, ","),
			h.DataCount,
			h.SerializedSize(),
		)
		r.Close()
	}
	w.Flush()
	os.Exit(exitCode)
}
