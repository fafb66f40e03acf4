// Package crs converts between the British National Grid (EPSG:27700) and
// geographic WGS84 (EPSG:4326) coordinates.
package crs

import (
	"fmt"

	"github.com/ctessum/geom/proj"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

// Proj4 definitions for the two reference systems. The OSGB definition
// carries the 7-parameter Helmert shift to WGS84.
const (
	osgb36Proj4 = "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 " +
		"+x_0=400000 +y_0=-100000 +ellps=airy " +
		"+towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489 " +
		"+units=m +no_defs"
	wgs84Proj4 = "+proj=longlat +datum=WGS84 +no_defs"
)

// Converter holds a pre-built transformer pair between EPSG:27700 and
// EPSG:4326. Construction parses the projection definitions and is
// comparatively expensive; build one Converter and reuse it. The transforms
// themselves are deterministic and safe for concurrent use.
type Converter struct {
	toGeographic proj.Transformer
	toProjected  proj.Transformer
}

// NewConverter builds the forward (grid to geographic) and inverse
// (geographic to grid) transforms.
func NewConverter() (*Converter, error) {
	osgb, err := proj.Parse(osgb36Proj4)
	if err != nil {
		return nil, fmt.Errorf("parse EPSG:27700 definition: %w", err)
	}
	wgs84, err := proj.Parse(wgs84Proj4)
	if err != nil {
		return nil, fmt.Errorf("parse EPSG:4326 definition: %w", err)
	}

	toGeo, err := osgb.NewTransform(wgs84)
	if err != nil {
		return nil, fmt.Errorf("build EPSG:27700 to EPSG:4326 transform: %w", err)
	}
	toProj, err := wgs84.NewTransform(osgb)
	if err != nil {
		return nil, fmt.Errorf("build EPSG:4326 to EPSG:27700 transform: %w", err)
	}

	return &Converter{toGeographic: toGeo, toProjected: toProj}, nil
}

// ToGeographic transforms an easting/northing pair to longitude/latitude.
func (c *Converter) ToGeographic(easting, northing float64) (lon, lat float64, err error) {
	lon, lat, err = c.toGeographic(easting, northing)
	if err != nil {
		return 0, 0, fmt.Errorf("transform (%v, %v) to geographic: %w", easting, northing, err)
	}
	return lon, lat, nil
}

// ToProjected transforms a longitude/latitude pair to easting/northing.
func (c *Converter) ToProjected(lon, lat float64) (easting, northing float64, err error) {
	easting, northing, err = c.toProjected(lon, lat)
	if err != nil {
		return 0, 0, fmt.Errorf("transform (%v, %v) to national grid: %w", lon, lat, err)
	}
	return easting, northing, nil
}

// GridRef converts a longitude/latitude pair to a National Grid reference at
// the requested precision (4, 6, 8 or 10 digits).
func (c *Converter) GridRef(lon, lat float64, figs int) (string, error) {
	easting, northing, err := c.toProjected(lon, lat)
	if err != nil {
		return "", &domain.InvalidCoordinateError{
			Reason: fmt.Sprintf("cannot project (%v, %v): %v", lon, lat, err),
		}
	}
	return domain.GridRef(easting, northing, figs)
}
