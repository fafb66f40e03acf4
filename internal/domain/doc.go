// Package domain models ERA5 surface reanalysis data for Great Britain and
// the derived per-cell daily climate records produced by the rechunker.
//
// # Data Source
//
// Source archives are ERA5 single-level hourly reanalysis files from the
// Copernicus Climate Data Store, covering a fixed GB bounding box
// (61N -9W to 49N 2E) at ~0.25 degree resolution. Each archive is a
// 3-dimensional (time x latitude x longitude) NetCDF dataset holding one
// month or one full year of hourly values for the surface variables:
//
//	u10   10m wind, u component        [m/s]
//	v10   10m wind, v component        [m/s]
//	t2m   2m air temperature           [K]
//	d2m   2m dewpoint temperature      [K]
//	tp    total precipitation          [m]
//	ssrd  surface solar radiation down [J/m^2], accumulated over the hour
//
// # Derived Quantities
//
// Per hourly record:
//
//	wspeed = sqrt(u10^2 + v10^2)
//	tas    = t2m - 273.15  (Celsius)
//	dp     = d2m - 273.15  (Celsius)
//	hurs   = Magnus-approximation relative humidity from tas and dp,
//	         rounded to two decimal places
//
// Per calendar day: mean/min/max of tas, sum of tp, sum of ssrd, mean of
// hurs, mean of wspeed, and irrad = daily ssrd sum / 86400 (mean power
// density in W/m^2 from accumulated energy).
//
// # Grid References
//
// Target cells are 1km squares of the Ordnance Survey National Grid
// (EPSG:27700). A grid reference is two letters naming a 100km square plus
// an even number of digits (4, 6, 8 or 10) locating a 1000m, 100m, 10m or
// 1m cell within it. The 100km lettering follows the standard 13x7 OS
// scheme with its origin at the grid's south-west corner; see [GridRef].
package domain
