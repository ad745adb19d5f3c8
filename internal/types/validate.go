package types

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedSeries marks price data that fails boundary validation.
// Malformed input is rejected before any indicator math runs.
var ErrMalformedSeries = errors.New("malformed price series")

// Validate enforces the series contract: timestamps strictly increasing,
// all values finite and non-negative. An empty series is valid; indicators
// simply come back insufficient.
func (s *PriceSeries) Validate() error {
	for i, b := range s.Bars {
		if i > 0 && !b.Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("%w: %s bar %d at %s does not advance past %s",
				ErrMalformedSeries, s.Symbol, i,
				b.Time.Format("2006-01-02T15:04:05Z07:00"),
				s.Bars[i-1].Time.Format("2006-01-02T15:04:05Z07:00"))
		}
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"open", b.Open}, {"high", b.High}, {"low", b.Low},
			{"close", b.Close}, {"volume", b.Volume},
		} {
			if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
				return fmt.Errorf("%w: %s bar %d has invalid %s %v",
					ErrMalformedSeries, s.Symbol, i, f.name, f.v)
			}
		}
	}
	return nil
}
