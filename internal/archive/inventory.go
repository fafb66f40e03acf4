// Package archive discovers, reads, writes and consolidates ERA5 surface
// NetCDF files on the raw-data directory.
//
// File naming convention: a yearly archive ends in "_YYYY.nc"; a monthly
// archive contains "_YYYY-MM" anywhere in its name. Matching is always
// against the literal four-digit year requested, so file names carrying
// other digit runs never leak into another year's inventory.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var (
	yearlyRe  = regexp.MustCompile(`_(\d{4})\.nc$`)
	monthlyRe = regexp.MustCompile(`_(\d{4})-(\d{2})`)
	yearRunRe = regexp.MustCompile(`\d{4}`)
)

// FindYearlyFile returns the path of the consolidated yearly archive for
// year, or ok=false when none exists.
func FindYearlyFile(dir string, year int) (path string, ok bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, fmt.Errorf("read archive directory: %w", err)
	}
	want := strconv.Itoa(year)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := yearlyRe.FindStringSubmatch(e.Name())
		if m != nil && m[1] == want {
			return filepath.Join(dir, e.Name()), true, nil
		}
	}
	return "", false, nil
}

// FindMonthlyFiles returns the sorted paths of all monthly archives for
// year. An empty result is not an error.
func FindMonthlyFiles(dir string, year int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read archive directory: %w", err)
	}
	want := strconv.Itoa(year)
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := monthlyRe.FindStringSubmatch(e.Name())
		if m != nil && m[1] == want {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ListAvailableYears scans every file name for four-digit runs and returns
// the distinct values sorted ascending. It is a discovery aid, not an
// authority: FindYearlyFile/FindMonthlyFiles decide what a year actually
// contains.
func ListAvailableYears(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read archive directory: %w", err)
	}
	seen := make(map[int]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, run := range yearRunRe.FindAllString(e.Name(), -1) {
			y, err := strconv.Atoi(run)
			if err == nil {
				seen[y] = true
			}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}
