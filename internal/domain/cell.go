package domain

import "time"

// Cell is one target 1km grid square, identified by name and located by the
// EPSG:27700 easting/northing of its centroid. Cells are read-only inputs;
// the rechunker never mutates the collection it is given.
type Cell struct {
	Name     string
	Easting  float64
	Northing float64
}

// CellResult summarizes one completed cell: how much was written and where.
// Published as a completion event when the Kafka sink is enabled.
type CellResult struct {
	Cell        string    `json:"cell"`
	Years       int       `json:"years"`
	Rows        int       `json:"rows"`
	Path        string    `json:"path"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewCellResult builds a CellResult stamped with the package clock.
func NewCellResult(cell string, years, rows int, path string) CellResult {
	return CellResult{
		Cell:        cell,
		Years:       years,
		Rows:        rows,
		Path:        path,
		CompletedAt: clock.Now().UTC(),
	}
}
