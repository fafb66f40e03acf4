// Command genfixture writes synthetic ERA5 surface archives for local runs
// and test setup. It generates either twelve monthly files or one yearly
// file per requested year, on a small grid over south-west England, plus an
// optional cells CSV whose centroids fall inside that grid.
//
// Usage:
//
//	go run ./cmd/genfixture -out data/raw -years 2019-2020 -monthly
//	go run ./cmd/genfixture -out data/raw -years 2020 -cells data/cells.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/era5-rechunk/internal/archive"
)

// Fixture grid axes, 0.25 degree spacing around Plymouth.
var (
	fixtureLats = []float64{50.0, 50.25, 50.5}
	fixtureLons = []float64{-4.25, -4.0, -3.75, -3.5}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "directory to write archive files into")
	yearsFlag := flag.String("years", "", "years to generate, as a range (2019-2021) or list (2019,2021)")
	monthly := flag.Bool("monthly", false, "write twelve monthly files per year instead of one yearly file")
	cellsOut := flag.String("cells", "", "optional path for a cells CSV covering the fixture grid")
	flag.Parse()

	if *out == "" || *yearsFlag == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -years")
	}

	years, err := parseYears(*yearsFlag)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, year := range years {
		if *monthly {
			if err := writeMonthlyFiles(*out, year); err != nil {
				return err
			}
		} else {
			if err := writeYearlyFile(*out, year); err != nil {
				return err
			}
		}
	}

	if *cellsOut != "" {
		if err := writeCellsCSV(*cellsOut); err != nil {
			return err
		}
		log.Printf("wrote cells CSV: %s", *cellsOut)
	}
	return nil
}

func writeMonthlyFiles(dir string, year int) error {
	for month := time.January; month <= time.December; month++ {
		name := fmt.Sprintf("era5_surface_gb_%d-%02d.nc", year, month)
		path := filepath.Join(dir, name)
		g := archive.SyntheticMonth(year, month, fixtureLats, fixtureLons)
		if err := archive.WriteArchive(path, g); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("wrote %s (%d hours)", path, len(g.Times))
	}
	return nil
}

func writeYearlyFile(dir string, year int) error {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	g := archive.SyntheticGrid(start, start.AddDate(1, 0, 0), fixtureLats, fixtureLons)
	path := filepath.Join(dir, archive.YearlyFileName(year))
	if err := archive.WriteArchive(path, g); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("wrote %s (%d hours)", path, len(g.Times))
	return nil
}

// writeCellsCSV emits a handful of named cells near the fixture grid points.
// The last row is unnamed so runs exercise grid-reference derivation too.
func writeCellsCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	rows := []string{
		"name,easting,northing",
		"SX4853,248500,53500", // Plymouth
		"SX9292,292500,92500", // Exeter
		",257500,65500",       // unnamed, name derived at run time
	}
	return os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o600)
}

func parseYears(s string) ([]int, error) {
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		first, err1 := strconv.Atoi(strings.TrimSpace(lo))
		last, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil || first > last {
			return nil, fmt.Errorf("invalid years range %q", s)
		}
		var years []int
		for y := first; y <= last; y++ {
			years = append(years, y)
		}
		return years, nil
	}
	var years []int
	for _, part := range strings.Split(s, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid years value %q", s)
		}
		years = append(years, y)
	}
	return years, nil
}
