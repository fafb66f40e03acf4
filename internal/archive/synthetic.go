package archive

import (
	"time"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

// SyntheticGrid builds deterministic hourly surface data covering
// [start, end) on the given axes. Values are chosen so extraction results
// are hand-computable in tests and fixtures:
//
//	u10  = 3, v10 = 4            (wind speed is always 5)
//	t2m  = 283.15 + hour-of-day + latIdx + lonIdx
//	d2m  = t2m                   (saturated, humidity is always 100)
//	tp   = 0.001
//	ssrd = 3600
func SyntheticGrid(start, end time.Time, lats, lons []float64) *GridData {
	hours := int(end.Sub(start) / time.Hour)
	grid := len(lats) * len(lons)

	g := &GridData{
		TimeUnits: timeUnits,
		Times:     make([]float64, hours),
		Lats:      lats,
		Lons:      lons,
		Vars:      make(map[string][]float64, len(domain.SurfaceVars)),
	}
	for _, name := range domain.SurfaceVars {
		g.Vars[name] = make([]float64, hours*grid)
	}

	for t := 0; t < hours; t++ {
		stamp := start.Add(time.Duration(t) * time.Hour)
		g.Times[t] = stamp.Sub(timeEpoch).Hours()
		hourOfDay := float64(stamp.UTC().Hour())
		for i := range lats {
			for j := range lons {
				k := t*grid + i*len(lons) + j
				temp := 283.15 + hourOfDay + float64(i) + float64(j)
				g.Vars["u10"][k] = 3
				g.Vars["v10"][k] = 4
				g.Vars["t2m"][k] = temp
				g.Vars["d2m"][k] = temp
				g.Vars["tp"][k] = 0.001
				g.Vars["ssrd"][k] = 3600
			}
		}
	}
	return g
}

// SyntheticMonth builds one calendar month of synthetic hourly data.
func SyntheticMonth(year int, month time.Month, lats, lons []float64) *GridData {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return SyntheticGrid(start, start.AddDate(0, 1, 0), lats, lons)
}
