package cells

import (
	"context"
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

// ShapefileSource reads cells from a polygon shapefile already in national
// grid coordinates. Each feature's centroid becomes the cell location and
// the configured attribute column supplies the cell name.
type ShapefileSource struct {
	path      string
	nameField string
}

// NewShapefileSource returns a source reading from path, taking cell names
// from the nameField attribute column.
func NewShapefileSource(path, nameField string) *ShapefileSource {
	return &ShapefileSource{path: path, nameField: nameField}
}

// Cells decodes every feature in the shapefile. Features missing the name
// attribute get an empty name and a grid reference derived downstream.
func (s *ShapefileSource) Cells(ctx context.Context) ([]domain.Cell, error) {
	dec, err := shp.NewDecoder(s.path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", s.path, err)
	}
	defer dec.Close()

	var cells []domain.Cell
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, fields, more := dec.DecodeRowFields(s.nameField)
		if !more {
			break
		}
		centroid, err := featureCentroid(g)
		if err != nil {
			return nil, fmt.Errorf("shapefile %s feature %d: %w", s.path, len(cells), err)
		}
		cells = append(cells, domain.Cell{
			Name:     fields[s.nameField],
			Easting:  centroid.X,
			Northing: centroid.Y,
		})
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("decode shapefile %s: %w", s.path, err)
	}
	return cells, nil
}

func featureCentroid(g geom.Geom) (geom.Point, error) {
	switch gg := g.(type) {
	case geom.Polygonal:
		return gg.Centroid(), nil
	case geom.Point:
		return gg, nil
	case *geom.Point:
		return *gg, nil
	default:
		return geom.Point{}, fmt.Errorf("unsupported geometry %T, want polygon or point", g)
	}
}
