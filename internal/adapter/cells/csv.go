// Package cells loads the target cell collection from either a CSV file of
// named centroids or a polygon shapefile. The file extension of the
// configured path selects the source.
package cells

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

// CSVSource reads cells from a CSV file with columns name,easting,northing.
// A header row is detected and skipped; the name column may be empty, in
// which case the runner derives a grid reference for the cell.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading from path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Cells reads and parses the whole file.
func (s *CSVSource) Cells(_ context.Context) ([]domain.Cell, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open cells file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	var cells []domain.Cell
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.path, err)
		}
		line++
		if line == 1 && isHeader(rec) {
			continue
		}
		easting, err1 := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		northing, err2 := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%s line %d: invalid coordinates %q, %q", s.path, line, rec[1], rec[2])
		}
		cells = append(cells, domain.Cell{
			Name:     strings.TrimSpace(rec[0]),
			Easting:  easting,
			Northing: northing,
		})
	}
	return cells, nil
}

// isHeader treats the first row as a header when its coordinate columns do
// not parse as numbers.
func isHeader(rec []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	return err != nil
}
