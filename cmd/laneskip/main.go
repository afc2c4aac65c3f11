// Command laneskip builds a four-lane skip list from a manifest, prints its
// lanes and answers the manifest's lookups.
//
//	laneskip -manifest lanes.yaml
//	laneskip -manifest lanes.json -v
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

func main() {
	manifestPath := flag.String("manifest", "lanes.yaml", "YAML or JSON manifest to build from")
	verbose := flag.Bool("v", false, "log debug records to stderr")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	m, err := LoadManifest(*manifestPath)
	if err != nil {
		slog.Error("loading manifest", slog.String("path", *manifestPath), slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(os.Stdout, m); err != nil {
		slog.Error("building skip list", slog.Any("error", err))
		os.Exit(1)
	}
}

// run builds the manifest's list and writes the report to w.
func run(w io.Writer, m *Manifest) error {
	sl, err := m.Build()
	if err != nil {
		return err
	}
	if err := sl.Validate(); err != nil {
		return err
	}

	if err := sl.Dump(w, m.Backward); err != nil {
		return err
	}

	if lo, ok := sl.Min(); ok {
		hi, _ := sl.Max()
		if _, err := fmt.Fprintf(w, "keys: %d, min: %d, max: %d\n", sl.Len(), lo, hi); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w, "keys: 0"); err != nil {
		return err
	}

	for _, key := range m.Lookups {
		path, found := sl.LookupPath(key)

		steps := make([]string, len(path))
		for i, s := range path {
			steps[i] = fmt.Sprintf("%d@%d", s.Value, s.Level)
		}

		result := "not found"
		if found {
			result = "found"
		}
		if _, err := fmt.Fprintf(w, "lookup %d: %s (%s)\n", key, strings.Join(steps, " -> "), result); err != nil {
			return err
		}
	}

	return nil
}
