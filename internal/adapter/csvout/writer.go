// Package csvout persists per-cell daily series as CSV files, one file per
// cell, named after the cell.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

var header = []string{"date", "tasmean", "tasmin", "tasmax", "pr", "ssrd", "irrad", "hurs", "wspeed"}

// Writer writes cell series into a single output directory.
// It implements rechunk.SeriesWriter.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed and returns a Writer.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// WriteSeries writes the series to <dir>/<name>.csv, replacing any previous
// file for the cell, and returns the path written.
func (w *Writer) WriteSeries(name string, series domain.CellSeries) (string, error) {
	path := filepath.Join(w.dir, name+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close() //nolint:errcheck
		return "", fmt.Errorf("write header to %s: %w", path, err)
	}
	for _, rec := range series {
		row := []string{
			rec.Date.Format("2006-01-02"),
			formatValue(rec.TasMean),
			formatValue(rec.TasMin),
			formatValue(rec.TasMax),
			formatValue(rec.Precip),
			formatValue(rec.SSRD),
			formatValue(rec.Irradiance),
			formatValue(rec.Humidity),
			formatValue(rec.WindSpeed),
		}
		if err := cw.Write(row); err != nil {
			f.Close() //nolint:errcheck
			return "", fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close() //nolint:errcheck
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
