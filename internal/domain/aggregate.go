package domain

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const secondsPerDay = 86400

// dayValues accumulates one calendar day's derived hourly series.
type dayValues struct {
	tas    []float64
	precip []float64
	ssrd   []float64
	hurs   []float64
	wspeed []float64
}

// AggregateDaily derives per-hour quantities from raw hourly records, groups
// them by UTC calendar date and reduces each day to summary statistics.
// Days with fewer than 24 records (month boundaries, partial coverage) are
// aggregated over whatever records are present. The result is ordered by
// date.
func AggregateDaily(hours []HourlyRecord) CellSeries {
	days := make(map[time.Time]*dayValues)
	for _, h := range hours {
		date := h.Time.UTC().Truncate(24 * time.Hour)
		d, ok := days[date]
		if !ok {
			d = &dayValues{}
			days[date] = d
		}
		tas := KelvinToCelsius(h.TempK)
		dp := KelvinToCelsius(h.DewpointK)
		d.tas = append(d.tas, tas)
		d.precip = append(d.precip, h.Precip)
		d.ssrd = append(d.ssrd, h.SSRD)
		d.hurs = append(d.hurs, RelativeHumidity(tas, dp))
		d.wspeed = append(d.wspeed, WindSpeed(h.WindU, h.WindV))
	}

	dates := make([]time.Time, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := make(CellSeries, 0, len(dates))
	for _, date := range dates {
		d := days[date]
		ssrdSum := floats.Sum(d.ssrd)
		series = append(series, DailyRecord{
			Date:       date,
			TasMean:    stat.Mean(d.tas, nil),
			TasMin:     floats.Min(d.tas),
			TasMax:     floats.Max(d.tas),
			Precip:     floats.Sum(d.precip),
			SSRD:       ssrdSum,
			Irradiance: ssrdSum / secondsPerDay,
			Humidity:   stat.Mean(d.hurs, nil),
			WindSpeed:  stat.Mean(d.wspeed, nil),
		})
	}
	return series
}
