package domain

import (
	"fmt"
	"math"
)

// squares is the OS National Grid 100km lettering, laid out as printed on a
// map: 13 rows north to south, 7 columns west to east. Row 0 starts 1200km
// north of the grid origin; the origin square (SV) is bottom-left.
var squares = [13][7]string{
	{"HL", "HM", "HN", "HO", "HP", "JL", "JM"},
	{"HQ", "HR", "HS", "HT", "HU", "JQ", "JR"},
	{"HV", "HW", "HX", "HY", "HZ", "JV", "JW"},
	{"NA", "NB", "NC", "ND", "NE", "OA", "OB"},
	{"NF", "NG", "NH", "NJ", "NK", "OF", "OG"},
	{"NL", "NM", "NN", "NO", "NP", "OL", "OM"},
	{"NQ", "NR", "NS", "NT", "NU", "OQ", "OR"},
	{"NV", "NW", "NX", "NY", "NZ", "OV", "OW"},
	{"SA", "SB", "SC", "SD", "SE", "TA", "TB"},
	{"SF", "SG", "SH", "SJ", "SK", "TF", "TG"},
	{"SL", "SM", "SN", "SO", "SP", "TL", "TM"},
	{"SQ", "SR", "SS", "ST", "SU", "TQ", "TR"},
	{"SV", "SW", "SX", "SY", "SZ", "TV", "TW"},
}

// cellSize maps reference precision (total digits) to the cell edge length
// in metres: 4 digits locate a 1km square, 10 digits a 1m square.
var cellSize = map[int]float64{4: 1000, 6: 100, 8: 10, 10: 1}

// GridRef formats an EPSG:27700 easting/northing as a National Grid
// reference at the requested precision (4, 6, 8 or 10 digits). Returns an
// InvalidCoordinateError for coordinates outside the lettered grid or an
// unsupported precision.
func GridRef(easting, northing float64, figs int) (string, error) {
	if math.IsNaN(easting) || math.IsNaN(northing) {
		return "", &InvalidCoordinateError{Reason: "coordinate is not a number"}
	}
	if easting < 0 || northing < 0 {
		return "", &InvalidCoordinateError{Reason: "location outside UK region"}
	}

	size, ok := cellSize[figs]
	if !ok {
		return "", &InvalidCoordinateError{Reason: fmt.Sprintf("precision must be 4, 6, 8 or 10, got %d", figs)}
	}

	xi := int(math.Floor(easting / 100000))
	yi := int(math.Floor(northing / 100000))
	if xi >= len(squares[0]) || yi >= len(squares) {
		return "", &InvalidCoordinateError{Reason: "location outside UK region"}
	}
	square := squares[len(squares)-1-yi][xi]

	digits := figs / 2
	x := int(math.Floor((easting - float64(xi)*100000) / size))
	y := int(math.Floor((northing - float64(yi)*100000) / size))
	return fmt.Sprintf("%s%0*d%0*d", square, digits, x, digits, y), nil
}
