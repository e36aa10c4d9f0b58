package collector

import (
	"math"
	"sort"
	"time"

	"DCADashboard/internal/model"
)

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalizeSeries sorts by date, keeps the last value of duplicated dates
// and drops non-finite values. positive also drops values <= 0, which are
// never valid prices.
func normalizeSeries(obs []model.Observation, positive bool) []model.Observation {
	clean := make([]model.Observation, 0, len(obs))
	for _, o := range obs {
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			continue
		}
		if positive && o.Value <= 0 {
			continue
		}
		clean = append(clean, o)
	}
	sort.SliceStable(clean, func(i, j int) bool { return clean[i].Date.Before(clean[j].Date) })

	out := clean[:0]
	for _, o := range clean {
		if n := len(out); n > 0 && out[n-1].Date.Equal(o.Date) {
			out[n-1] = o
			continue
		}
		out = append(out, o)
	}
	return out
}
