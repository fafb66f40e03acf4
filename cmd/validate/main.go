// Command validate performs integrity checks on a directory of rechunked
// per-cell CSV files. It verifies file structure, per-row value sanity,
// internal consistency of derived columns, and cross-file alignment of the
// daily time axis.
//
// Usage:
//
//	go run ./cmd/validate -dir data/out
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var expectedHeader = []string{"date", "tasmean", "tasmin", "tasmax", "pr", "ssrd", "irrad", "hurs", "wspeed"}

const secondsPerDay = 86400.0

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// cellFile is one parsed output CSV.
type cellFile struct {
	name  string
	dates []time.Time
	rows  [][]float64 // numeric columns, tasmean..wspeed
}

func main() {
	dir := flag.String("dir", "", "directory of rechunked cell CSV files")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	fmt.Println("=== Rechunked Output Validation ===")
	fmt.Println()

	files, structural := loadCellFiles(dir)
	if len(files) == 0 && structural.passed() {
		fmt.Fprintf(os.Stderr, "FATAL: no CSV files found in %s\n", dir)
		return 1
	}

	phases := []*phase{
		structural,
		validateTimeAxes(files),
		validateValueRanges(files),
		validateCrossFileAlignment(files),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	totalRows := 0
	for _, f := range files {
		totalRows += len(f.rows)
	}
	fmt.Printf("Files: %d, rows: %d\n", len(files), totalRows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Structure ──
// Every CSV must carry the expected header and fully numeric data columns.

func loadCellFiles(dir string) ([]cellFile, *phase) {
	p := &phase{name: "Phase 1: File Structure"}

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		p.errorf("list %s: %v", dir, err)
		return nil, p
	}

	var files []cellFile
	for _, path := range paths {
		f, err := loadCellFile(path)
		if err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		files = append(files, f)
	}
	return files, p
}

func loadCellFile(path string) (cellFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return cellFile{}, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return cellFile{}, err
	}
	if len(all) == 0 {
		return cellFile{}, fmt.Errorf("empty file")
	}
	if got := strings.Join(all[0], ","); got != strings.Join(expectedHeader, ",") {
		return cellFile{}, fmt.Errorf("header %q, want %q", got, strings.Join(expectedHeader, ","))
	}

	out := cellFile{name: strings.TrimSuffix(filepath.Base(path), ".csv")}
	for i, row := range all[1:] {
		line := i + 2
		if len(row) != len(expectedHeader) {
			return cellFile{}, fmt.Errorf("line %d: %d columns, want %d", line, len(row), len(expectedHeader))
		}
		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return cellFile{}, fmt.Errorf("line %d: bad date %q", line, row[0])
		}
		vals := make([]float64, len(row)-1)
		for j, s := range row[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return cellFile{}, fmt.Errorf("line %d: column %s: bad value %q", line, expectedHeader[j+1], s)
			}
			vals[j] = v
		}
		out.dates = append(out.dates, date)
		out.rows = append(out.rows, vals)
	}
	return out, nil
}

// ── Phase 2: Time Axis ──
// Dates must be strictly increasing within each file.

func validateTimeAxes(files []cellFile) *phase {
	p := &phase{name: "Phase 2: Time Axis Monotonicity"}
	for _, f := range files {
		for i := 1; i < len(f.dates); i++ {
			if !f.dates[i].After(f.dates[i-1]) {
				p.errorf("%s: dates not strictly increasing at row %d (%s then %s)",
					f.name, i+1, f.dates[i-1].Format("2006-01-02"), f.dates[i].Format("2006-01-02"))
			}
		}
	}
	return p
}

// ── Phase 3: Value Ranges ──
// Physical sanity of every row plus consistency of derived columns.

func validateValueRanges(files []cellFile) *phase {
	p := &phase{name: "Phase 3: Value Ranges"}
	for _, f := range files {
		for i, row := range f.rows {
			checkRow(p, f.name, i+2, row)
		}
	}
	return p
}

func checkRow(p *phase, name string, line int, row []float64) {
	tasmean, tasmin, tasmax := row[0], row[1], row[2]
	pr, ssrd, irrad, hurs, wspeed := row[3], row[4], row[5], row[6], row[7]

	if tasmin > tasmean || tasmean > tasmax {
		p.errorf("%s line %d: temperature ordering violated (min=%g mean=%g max=%g)",
			name, line, tasmin, tasmean, tasmax)
	}
	if tasmean < -60 || tasmean > 60 {
		p.errorf("%s line %d: tasmean %g outside plausible range", name, line, tasmean)
	}
	if pr < 0 {
		p.errorf("%s line %d: negative precipitation %g", name, line, pr)
	}
	if ssrd < 0 {
		p.errorf("%s line %d: negative ssrd %g", name, line, ssrd)
	}
	if hurs < 0 || hurs > 100 {
		p.errorf("%s line %d: hurs %g outside [0, 100]", name, line, hurs)
	}
	if wspeed < 0 {
		p.errorf("%s line %d: negative wind speed %g", name, line, wspeed)
	}
	if math.Abs(irrad-ssrd/secondsPerDay) > 1e-6 {
		p.errorf("%s line %d: irrad %g does not match ssrd/86400 (%g)",
			name, line, irrad, ssrd/secondsPerDay)
	}
}

// ── Phase 4: Cross-File Alignment ──
// All cells must share the same daily time axis.

func validateCrossFileAlignment(files []cellFile) *phase {
	p := &phase{name: "Phase 4: Cross-File Alignment"}
	if len(files) < 2 {
		return p
	}

	ref := files[0]
	for _, f := range files[1:] {
		if len(f.dates) != len(ref.dates) {
			p.errorf("%s: %d rows, %s has %d", f.name, len(f.dates), ref.name, len(ref.dates))
			continue
		}
		for i := range f.dates {
			if !f.dates[i].Equal(ref.dates[i]) {
				p.errorf("%s row %d: date %s, %s has %s", f.name, i+2,
					f.dates[i].Format("2006-01-02"), ref.name, ref.dates[i].Format("2006-01-02"))
				break
			}
		}
	}
	return p
}
