package domain

import "fmt"

// MissingDataError reports a year that can be neither found as a consolidated
// yearly archive nor assembled from twelve monthly archives. It is fatal:
// the run aborts before any cell is processed.
type MissingDataError struct {
	Year    int
	Missing int // number of absent months
}

func (e *MissingDataError) Error() string {
	if e.Missing >= 12 {
		return fmt.Sprintf("no available data for year %d", e.Year)
	}
	return fmt.Sprintf("missing %d months of data for year %d", e.Missing, e.Year)
}

// InvalidCoordinateError reports a coordinate pair that cannot be expressed
// as a National Grid reference: malformed input, a point outside the grid,
// or an unsupported precision.
type InvalidCoordinateError struct {
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	return "invalid coordinate: " + e.Reason
}

// SeriesLengthError reports paired value series of different lengths passed
// to a derivation that requires element-wise alignment.
type SeriesLengthError struct {
	Want, Got int
}

func (e *SeriesLengthError) Error() string {
	return fmt.Sprintf("series length mismatch: %d vs %d", e.Want, e.Got)
}
