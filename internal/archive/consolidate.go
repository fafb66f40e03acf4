package archive

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

const yearlyPrefix = "era5_surface_gb"

// timeEpoch is the CF epoch used for consolidated yearly files.
var timeEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const timeUnits = "hours since 1900-01-01 00:00:00"

// YearlyFileName returns the file name a consolidated yearly archive is
// written under.
func YearlyFileName(year int) string {
	return fmt.Sprintf("%s_%d.nc", yearlyPrefix, year)
}

// monthChunk holds one monthly file's contents, decoded and unpacked.
type monthChunk struct {
	times []time.Time
	vars  map[string][]float64
	grid  int // values per time step
}

// ConsolidateYear ensures a consolidated yearly archive exists for year in
// dir and returns its path. A pre-existing yearly file is authoritative and
// returned as-is, so repeated runs never re-derive or overwrite. Otherwise
// the year's twelve monthly files are concatenated along the time axis,
// sorted, validated for strict monotonicity and persisted. Fewer than
// twelve monthly files is a *domain.MissingDataError.
func ConsolidateYear(dir string, year int, logger *slog.Logger) (string, error) {
	if path, ok, err := FindYearlyFile(dir, year); err != nil {
		return "", err
	} else if ok {
		logger.Debug("yearly archive present, skipping consolidation", "year", year, "path", path)
		return path, nil
	}

	monthly, err := FindMonthlyFiles(dir, year)
	if err != nil {
		return "", err
	}
	if len(monthly) < 12 {
		return "", &domain.MissingDataError{Year: year, Missing: 12 - len(monthly)}
	}

	logger.Info("consolidating monthly archives", "year", year, "files", len(monthly))

	var lats, lons []float64
	chunks := make([]monthChunk, 0, len(monthly))
	for _, path := range monthly {
		chunk, chunkLats, chunkLons, err := readMonth(path)
		if err != nil {
			return "", err
		}
		if lats == nil {
			lats, lons = chunkLats, chunkLons
		} else if !sameAxis(lats, chunkLats) || !sameAxis(lons, chunkLons) {
			return "", fmt.Errorf("archive %s: grid axes differ from the year's other months", path)
		}
		chunks = append(chunks, chunk)
	}

	combined, err := concatChunks(chunks, len(lats)*len(lons))
	if err != nil {
		return "", fmt.Errorf("concatenate year %d: %w", year, err)
	}
	combined.Lats, combined.Lons = lats, lons

	path := filepath.Join(dir, YearlyFileName(year))
	if err := WriteArchive(path, combined); err != nil {
		return "", err
	}
	logger.Info("yearly archive written", "year", year, "path", path, "hours", len(combined.Times))
	return path, nil
}

// readMonth loads one monthly archive wholesale and releases the file
// handle before returning.
func readMonth(path string) (monthChunk, []float64, []float64, error) {
	d, err := Open(path)
	if err != nil {
		return monthChunk{}, nil, nil, err
	}
	defer d.Close() //nolint:errcheck // read-only handle

	chunk := monthChunk{
		times: d.Times,
		vars:  make(map[string][]float64, len(domain.SurfaceVars)),
		grid:  len(d.Lats) * len(d.Lons),
	}
	for _, name := range domain.SurfaceVars {
		data, err := d.ReadGrid(name)
		if err != nil {
			return monthChunk{}, nil, nil, err
		}
		chunk.vars[name] = data
	}
	return chunk, d.Lats, d.Lons, nil
}

// concatChunks merges monthly chunks along the time axis in chronological
// order, regardless of the order the files were listed in.
func concatChunks(chunks []monthChunk, grid int) (*GridData, error) {
	type step struct {
		chunk, idx int
		t          time.Time
	}
	var steps []step
	for ci, c := range chunks {
		for ti, t := range c.times {
			steps = append(steps, step{chunk: ci, idx: ti, t: t})
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].t.Before(steps[j].t) })

	for i := 1; i < len(steps); i++ {
		if !steps[i].t.After(steps[i-1].t) {
			return nil, fmt.Errorf("time axis not strictly increasing at %s", steps[i].t)
		}
	}

	out := &GridData{
		TimeUnits: timeUnits,
		Times:     make([]float64, len(steps)),
		Vars:      make(map[string][]float64, len(domain.SurfaceVars)),
	}
	for _, name := range domain.SurfaceVars {
		out.Vars[name] = make([]float64, len(steps)*grid)
	}
	for i, s := range steps {
		out.Times[i] = s.t.Sub(timeEpoch).Hours()
		for _, name := range domain.SurfaceVars {
			src := chunks[s.chunk].vars[name][s.idx*grid : (s.idx+1)*grid]
			copy(out.Vars[name][i*grid:(i+1)*grid], src)
		}
	}
	return out, nil
}

func sameAxis(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if diff := a[i] - b[i]; diff > 1e-6 || diff < -1e-6 {
			return false
		}
	}
	return true
}
