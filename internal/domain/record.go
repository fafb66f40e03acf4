package domain

import "time"

// Variable names of the surface archive schema, in canonical order. Every
// archive file carries exactly these data variables.
var SurfaceVars = []string{"u10", "v10", "t2m", "d2m", "tp", "ssrd"}

// HourlyRecord is one time step of raw archive values extracted at a single
// grid point.
type HourlyRecord struct {
	Time      time.Time
	WindU     float64 // u10 [m/s]
	WindV     float64 // v10 [m/s]
	TempK     float64 // t2m [K]
	DewpointK float64 // d2m [K]
	Precip    float64 // tp [m]
	SSRD      float64 // ssrd [J/m^2]
}

// DailyRecord is the aggregation of one calendar day's hourly records.
type DailyRecord struct {
	Date       time.Time // midnight UTC of the calendar day
	TasMean    float64   // mean 2m temperature [C]
	TasMin     float64
	TasMax     float64
	Precip     float64 // daily total precipitation [m]
	SSRD       float64 // daily total solar radiation [J/m^2]
	Irradiance float64 // SSRD / 86400 [W/m^2]
	Humidity   float64 // mean relative humidity [%]
	WindSpeed  float64 // mean wind speed [m/s]
}

// CellSeries is the date-ordered daily record sequence for one cell,
// grown by appending one-year fragments and written out once complete.
type CellSeries []DailyRecord
