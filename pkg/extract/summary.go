package extract

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/gps-extractor/pkg/model"
)

// Summarize computes simple speed statistics over the fixes of t.
// Rows without speed are ignored for the statistics.
func Summarize(t *model.Table) model.Summary {
	kph := lo.FilterMap(t.Rows, func(f model.Fix, _ int) (float64, bool) {
		return f.SpeedKph.Get()
	})
	mph := lo.FilterMap(t.Rows, func(f model.Fix, _ int) (float64, bool) {
		return f.SpeedMph.Get()
	})
	ret := model.Summary{
		Rows: len(t.Rows),
		WithPosition: lo.CountBy(t.Rows, func(f model.Fix) bool {
			_, hasLat := f.Latitude.Get()
			_, hasLon := f.Longitude.Get()
			return hasLat && hasLon
		}),
		WithSpeed: len(kph),
	}
	if len(kph) > 0 {
		ret.MaxSpeedKph = floats.Max(kph)
		ret.MeanSpeedKph = stat.Mean(kph, nil)
		ret.MaxSpeedMph = floats.Max(mph)
		ret.MeanSpeedMph = stat.Mean(mph, nil)
	}
	return ret
}
