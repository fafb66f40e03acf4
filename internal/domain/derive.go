package domain

import "math"

const kelvinOffset = 273.15

// WindSpeed returns the scalar wind speed from u and v components.
func WindSpeed(u, v float64) float64 {
	return math.Hypot(u, v)
}

// KelvinToCelsius converts an absolute temperature to Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}

// RelativeHumidity computes relative humidity in percent from temperature
// and dewpoint in Celsius using the Magnus approximation, rounded to two
// decimal places. The approximation holds for liquid-water temperatures
// roughly between -45C and 60C; inputs are not range-checked.
func RelativeHumidity(tempC, dewpointC float64) float64 {
	rh := 100 * math.Exp(17.625*dewpointC/(243.04+dewpointC)) /
		math.Exp(17.625*tempC/(243.04+tempC))
	return math.Round(rh*100) / 100
}

// RelativeHumiditySeries applies RelativeHumidity element-wise to paired
// temperature and dewpoint series. Returns a SeriesLengthError when the
// series are not the same length.
func RelativeHumiditySeries(tempC, dewpointC []float64) ([]float64, error) {
	if len(tempC) != len(dewpointC) {
		return nil, &SeriesLengthError{Want: len(tempC), Got: len(dewpointC)}
	}
	out := make([]float64, len(tempC))
	for i := range tempC {
		out[i] = RelativeHumidity(tempC[i], dewpointC[i])
	}
	return out, nil
}
