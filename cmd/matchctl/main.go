// matchctl runs the gradebook/submission matching pipeline offline: point it
// at a Moodle gradebook CSV and a submissions ZIP and it prints a match
// report, optionally writing an export CSV with grades carried over as-is.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/grade-mate/grademate/internal/gradebook"
	"github.com/grade-mate/grademate/internal/match"
	"github.com/grade-mate/grademate/internal/naming"
	"github.com/grade-mate/grademate/internal/roster"
	"github.com/grade-mate/grademate/internal/submission"
)

func main() {
	var (
		gradebookPath = flag.String("gradebook", "", "path to gradebook CSV (required)")
		zipPath       = flag.String("zip", "", "path to Moodle submissions ZIP (required)")
		outPath       = flag.String("out", "", "write export CSV here (optional)")
		firstCol      = flag.Int("first", roster.NotFound, "manual first-name column index")
		lastCol       = flag.Int("last", roster.NotFound, "manual last-name column index")
		knownNames    = flag.String("known", "", "comma-separated distinctive-name allow-list")
	)
	flag.Parse()
	if *gradebookPath == "" || *zipPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*gradebookPath)
	if err != nil {
		log.Fatalf("read gradebook: %v", err)
	}
	f, err := gradebook.Parse(data)
	if err != nil {
		log.Fatalf("parse gradebook: %v", err)
	}
	for _, warn := range f.Warnings {
		log.Printf("warning: row %d: %s", warn.Row, warn.Message)
	}

	roles := roster.ClassifyHeaders(f.Headers).WithNameOverride(*firstCol, *lastCol)
	if !roles.HasNameColumns() {
		log.Fatalf("no name columns detected; pass -first/-last to select them manually")
	}
	records := roster.BuildRecords(f.Headers, f.Rows, roles)

	zipBytes, err := os.ReadFile(*zipPath)
	if err != nil {
		log.Fatalf("read zip: %v", err)
	}
	entries, err := submission.ListEntries(zipBytes)
	if err != nil {
		log.Fatalf("read zip: %v", err)
	}

	cfg := match.DefaultConfig()
	if *knownNames != "" {
		cfg.KnownUniqueNames = splitCSV(*knownNames)
	}
	m := match.New(cfg)

	unmatched := 0
	for _, e := range entries {
		cand := naming.Normalize(e.Name)
		res := m.Match(cand, records)
		if res.Matched() {
			fmt.Printf("%-50s -> %-30s (%s)\n", e.Name, res.Record.FullName, res.Strategy)
		} else {
			unmatched++
			fmt.Printf("%-50s -> NO MATCH\n", e.Name)
		}
	}
	fmt.Printf("\n%d folders, %d students, %d unmatched\n", len(entries), len(records), unmatched)

	if *outPath != "" {
		out, err := gradebook.Export(f, roles, nil)
		if err != nil {
			log.Fatalf("export: %v", err)
		}
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			log.Fatalf("write export: %v", err)
		}
		log.Printf("wrote %s", *outPath)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
