package main

import (
	"os"

	"firevalid/internal/report"
)

// newWriter assembles the summary writer fan-out from flags and env vars:
// STDOUT JSON unless quiet, a metrics file when requested, a GreptimeDB sink
// when GREPTIMEDB_ENDPOINT is set, and the TUI view when asked for.
func newWriter(outPath string, quiet, tui bool) (report.Writer, error) {
	var writers []report.Writer
	if !quiet {
		writers = append(writers, &report.StdoutWriter{})
	}
	if outPath != "" {
		writers = append(writers, report.NewFileWriter(outPath))
	}
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		db := os.Getenv("GREPTIMEDB_DATABASE")
		if db == "" {
			db = "public"
		}
		gw, err := report.NewGreptimeDBWriter(endpoint, db, os.Getenv("GREPTIMEDB_TABLE"))
		if err != nil {
			return nil, err
		}
		writers = append(writers, gw)
	}
	if tui {
		writers = append(writers, &report.TUIWriter{})
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return report.NewMultiWriter(writers...), nil
}
