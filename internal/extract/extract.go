// Package extract pulls single-point hourly series out of archive files and
// reduces them to daily cell records.
package extract

import (
	"fmt"

	"github.com/couchcryptid/era5-rechunk/internal/archive"
	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

// Extractor reads yearly archive files one cell at a time. The zero value
// is usable; the type exists so the orchestrator can depend on an interface.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor { return &Extractor{} }

// CellDaily extracts the grid point nearest to (lon, lat) from the archive
// file at path, derives per-hour quantities and aggregates them to daily
// records. The file handle is opened and released within the call, so
// concurrent extractions from the same file each hold their own handle.
func (e *Extractor) CellDaily(path string, lon, lat float64) (domain.CellSeries, error) {
	d, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer d.Close() //nolint:errcheck // read-only handle

	latIdx, lonIdx := d.NearestIndex(lon, lat)

	series := make(map[string][]float64, len(domain.SurfaceVars))
	for _, name := range domain.SurfaceVars {
		if series[name], err = d.ReadPointSeries(name, latIdx, lonIdx); err != nil {
			return nil, fmt.Errorf("extract %s from %s: %w", name, path, err)
		}
	}

	hours := make([]domain.HourlyRecord, len(d.Times))
	for i, stamp := range d.Times {
		hours[i] = domain.HourlyRecord{
			Time:      stamp,
			WindU:     series["u10"][i],
			WindV:     series["v10"][i],
			TempK:     series["t2m"][i],
			DewpointK: series["d2m"][i],
			Precip:    series["tp"][i],
			SSRD:      series["ssrd"][i],
		}
	}
	return domain.AggregateDaily(hours), nil
}
