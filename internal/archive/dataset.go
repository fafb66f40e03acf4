package archive

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
)

var (
	latNames  = []string{"latitude", "lat"}
	lonNames  = []string{"longitude", "lon"}
	timeNames = []string{"time"}
)

// Dataset is an open archive file with its axes decoded. Data variables are
// read on demand; Close releases the underlying NetCDF handle.
type Dataset struct {
	nc   netcdf.Dataset
	path string

	Times []time.Time
	Lats  []float64
	Lons  []float64
}

// Open opens an archive file read-only and decodes its time, latitude and
// longitude axes. The caller must Close the dataset.
func Open(path string) (*Dataset, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	d := &Dataset{nc: nc, path: path}
	if err := d.readAxes(); err != nil {
		nc.Close() //nolint:errcheck // open failed, best-effort release
		return nil, fmt.Errorf("read axes of %s: %w", path, err)
	}
	return d, nil
}

// Close releases the archive file handle.
func (d *Dataset) Close() error {
	return d.nc.Close()
}

// Path returns the file this dataset was opened from.
func (d *Dataset) Path() string { return d.path }

func (d *Dataset) readAxes() error {
	timeVar, err := d.findVar(timeNames)
	if err != nil {
		return err
	}
	rawTimes, err := readVar1D(timeVar)
	if err != nil {
		return fmt.Errorf("read time axis: %w", err)
	}
	units, ok := attrString(timeVar, "units")
	if !ok {
		return fmt.Errorf("time axis has no units attribute")
	}
	step, epoch, err := parseTimeUnits(units)
	if err != nil {
		return err
	}
	d.Times = make([]time.Time, len(rawTimes))
	for i, v := range rawTimes {
		d.Times[i] = epoch.Add(time.Duration(v * float64(step)))
	}

	latVar, err := d.findVar(latNames)
	if err != nil {
		return err
	}
	if d.Lats, err = readVar1D(latVar); err != nil {
		return fmt.Errorf("read latitude axis: %w", err)
	}

	lonVar, err := d.findVar(lonNames)
	if err != nil {
		return err
	}
	if d.Lons, err = readVar1D(lonVar); err != nil {
		return fmt.Errorf("read longitude axis: %w", err)
	}
	return nil
}

func (d *Dataset) findVar(candidates []string) (netcdf.Var, error) {
	for _, name := range candidates {
		if v, err := d.nc.Var(name); err == nil {
			return v, nil
		}
	}
	return netcdf.Var{}, fmt.Errorf("variable not found (tried %v)", candidates)
}

// NearestIndex returns the indices of the grid point nearest to (lon, lat),
// nearest per axis with no interpolation.
func (d *Dataset) NearestIndex(lon, lat float64) (latIdx, lonIdx int) {
	return nearest(d.Lats, lat), nearest(d.Lons, lon)
}

func nearest(axis []float64, target float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range axis {
		if dist := math.Abs(v - target); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// ReadPointSeries reads one data variable at a single grid point across the
// whole time axis, with packing (scale_factor/add_offset) applied.
func (d *Dataset) ReadPointSeries(name string, latIdx, lonIdx int) ([]float64, error) {
	flat, err := d.ReadGrid(name)
	if err != nil {
		return nil, err
	}
	nLat, nLon := len(d.Lats), len(d.Lons)
	series := make([]float64, len(d.Times))
	for t := range series {
		series[t] = flat[t*nLat*nLon+latIdx*nLon+lonIdx]
	}
	return series, nil
}

// ReadGrid reads a full (time x latitude x longitude) data variable as a
// flat time-major array, with packing applied.
func (d *Dataset) ReadGrid(name string) ([]float64, error) {
	v, err := d.nc.Var(name)
	if err != nil {
		return nil, fmt.Errorf("variable %q not found in %s: %w", name, d.path, err)
	}

	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("dimensions of %q: %w", name, err)
	}
	if len(dims) != 3 {
		return nil, fmt.Errorf("variable %q: expected 3D data, got %dD", name, len(dims))
	}
	lens := make([]uint64, 3)
	for i, dim := range dims {
		if lens[i], err = dim.Len(); err != nil {
			return nil, fmt.Errorf("dimension length of %q: %w", name, err)
		}
	}
	nTime, nLat, nLon := uint64(len(d.Times)), uint64(len(d.Lats)), uint64(len(d.Lons))
	if lens[0] != nTime || lens[1] != nLat || lens[2] != nLon {
		return nil, fmt.Errorf("variable %q: dimensions %v do not match axes (%d, %d, %d)",
			name, lens, nTime, nLat, nLon)
	}

	flat, err := readVarFlat(v, int(nTime*nLat*nLon))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}

	// ERA5 archives pack values as shorts with scale/offset attributes.
	scale, hasScale := attrFloat(v, "scale_factor")
	offset, hasOffset := attrFloat(v, "add_offset")
	if hasScale || hasOffset {
		if !hasScale {
			scale = 1
		}
		for i := range flat {
			flat[i] = flat[i]*scale + offset
		}
	}
	return flat, nil
}

func readVar1D(v netcdf.Var) ([]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable, got %dD", len(dims))
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	return readVarFlat(v, int(n))
}

// readVarFlat reads an entire variable as float64, converting from the
// stored type.
func readVarFlat(v netcdf.Var, n int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("variable type: %w", err)
	}
	switch t {
	case netcdf.DOUBLE:
		out := make([]float64, n)
		if err := v.ReadFloat64s(out); err != nil {
			return nil, err
		}
		return out, nil
	case netcdf.FLOAT:
		tmp := make([]float32, n)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.INT:
		tmp := make([]int32, n)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.SHORT:
		tmp := make([]int16, n)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported variable type %v", t)
	}
}

func attrFloat(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, n)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, n)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	return 0, false
}

func attrString(v netcdf.Var, name string) (string, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return "", false
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", false
	}
	return string(buf), true
}

// timeUnitsRe matches CF-style time units such as
// "hours since 1900-01-01 00:00:00.0".
var timeUnitsRe = regexp.MustCompile(`^(seconds|minutes|hours|days) since (\d{4}-\d{2}-\d{2})(?:[ T](\d{2}:\d{2}:\d{2}(?:\.\d+)?))?`)

func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	m := timeUnitsRe.FindStringSubmatch(units)
	if m == nil {
		return 0, time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}

	var step time.Duration
	switch m[1] {
	case "seconds":
		step = time.Second
	case "minutes":
		step = time.Minute
	case "hours":
		step = time.Hour
	case "days":
		step = 24 * time.Hour
	}

	stamp := m[2] + "T00:00:00Z"
	if m[3] != "" {
		sec := m[3]
		if i := len("15:04:05"); len(sec) > i {
			sec = sec[:i] // drop fractional seconds
		}
		stamp = m[2] + "T" + sec + "Z"
	}
	epoch, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse time epoch in %q: %w", units, err)
	}
	return step, epoch, nil
}
