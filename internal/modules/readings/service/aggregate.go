package service

import (
	"math"
	"sort"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/resolution"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/types"
)

// Aggregate resolves a range name (falling back to the default resolution),
// selects the readings inside its lookback window, and averages them into
// fixed-width buckets. Buckets with no readings are omitted; an empty
// selection yields an empty slice, never an error.
func (s *Service) Aggregate(name string) ([]types.Record, error) {
	spec := resolution.Resolve(name).Spec()

	var rows []types.Reading
	var err error
	if spec.Bounded {
		start := s.now().Unix() - spec.Lookback
		rows, err = s.repo.ReadingsSince(start)
	} else {
		// Unbounded means no time filter at all, so readings with pre-epoch
		// timestamps still qualify.
		rows, err = s.repo.ReadingsByTime()
	}
	if err != nil {
		return nil, err
	}

	return bucketize(rows, spec.BucketWidth), nil
}

type accumulator struct {
	temp     float64
	humidity float64
	pressure float64
	light    float64
	count    int64
}

func bucketize(rows []types.Reading, width int64) []types.Record {
	acc := make(map[int64]*accumulator)
	for _, r := range rows {
		ts := bucketStart(r.Unix, width)
		a := acc[ts]
		if a == nil {
			a = &accumulator{}
			acc[ts] = a
		}
		a.temp += r.Temp
		a.humidity += r.Humidity
		a.pressure += r.Pressure
		a.light += r.Light
		a.count++
	}

	starts := make([]int64, 0, len(acc))
	for ts := range acc {
		starts = append(starts, ts)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	out := make([]types.Record, 0, len(starts))
	for _, ts := range starts {
		a := acc[ts]
		n := float64(a.count)
		out = append(out, types.Record{
			Unix:     ts,
			Temp:     round2(a.temp / n),
			Humidity: round2(a.humidity / n),
			Pressure: round2(a.pressure / n),
			Light:    round2(a.light / n),
		})
	}
	return out
}

// bucketStart is floor(ts/width)*width. Go's integer division truncates
// toward zero, so pre-epoch timestamps need the quotient adjusted down.
func bucketStart(ts, width int64) int64 {
	q := ts / width
	if ts%width != 0 && ts < 0 {
		q--
	}
	return q * width
}

// round2 rounds to 2 decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
