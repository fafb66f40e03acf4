package archive

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"
)

// GridData is the in-memory form of one archive file: decoded axes plus
// flat time-major (time x latitude x longitude) data variables.
type GridData struct {
	TimeUnits string // CF units of the time axis, e.g. "hours since 1900-01-01 00:00:00"
	Times     []float64
	Lats      []float64
	Lons      []float64
	Vars      map[string][]float64
}

// WriteArchive persists g as a NetCDF archive file at path, overwriting any
// existing file. Axes and data variables are stored as doubles; the
// rechunker reads its own consolidated output, so packing is unnecessary.
func WriteArchive(path string, g *GridData) error {
	gridLen := len(g.Times) * len(g.Lats) * len(g.Lons)
	for name, data := range g.Vars {
		if len(data) != gridLen {
			return fmt.Errorf("variable %q: %d values, want %d", name, len(data), gridLen)
		}
	}

	nc, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	defer nc.Close() //nolint:errcheck // flushed below via EndDef and writes

	timeDim, err := nc.AddDim("time", uint64(len(g.Times)))
	if err != nil {
		return fmt.Errorf("add time dimension: %w", err)
	}
	latDim, err := nc.AddDim("latitude", uint64(len(g.Lats)))
	if err != nil {
		return fmt.Errorf("add latitude dimension: %w", err)
	}
	lonDim, err := nc.AddDim("longitude", uint64(len(g.Lons)))
	if err != nil {
		return fmt.Errorf("add longitude dimension: %w", err)
	}

	timeVar, err := nc.AddVar("time", netcdf.DOUBLE, []netcdf.Dim{timeDim})
	if err != nil {
		return fmt.Errorf("add time variable: %w", err)
	}
	if err := timeVar.Attr("units").WriteBytes([]byte(g.TimeUnits)); err != nil {
		return fmt.Errorf("write time units: %w", err)
	}
	latVar, err := nc.AddVar("latitude", netcdf.DOUBLE, []netcdf.Dim{latDim})
	if err != nil {
		return fmt.Errorf("add latitude variable: %w", err)
	}
	lonVar, err := nc.AddVar("longitude", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	if err != nil {
		return fmt.Errorf("add longitude variable: %w", err)
	}

	dataDims := []netcdf.Dim{timeDim, latDim, lonDim}
	dataVars := make(map[string]netcdf.Var, len(g.Vars))
	for name := range g.Vars {
		v, err := nc.AddVar(name, netcdf.DOUBLE, dataDims)
		if err != nil {
			return fmt.Errorf("add variable %q: %w", name, err)
		}
		dataVars[name] = v
	}

	if err := nc.EndDef(); err != nil {
		return fmt.Errorf("end define mode: %w", err)
	}

	if err := timeVar.WriteFloat64s(g.Times); err != nil {
		return fmt.Errorf("write time axis: %w", err)
	}
	if err := latVar.WriteFloat64s(g.Lats); err != nil {
		return fmt.Errorf("write latitude axis: %w", err)
	}
	if err := lonVar.WriteFloat64s(g.Lons); err != nil {
		return fmt.Errorf("write longitude axis: %w", err)
	}
	for name, v := range dataVars {
		if err := v.WriteFloat64s(g.Vars[name]); err != nil {
			return fmt.Errorf("write variable %q: %w", name, err)
		}
	}
	return nil
}
