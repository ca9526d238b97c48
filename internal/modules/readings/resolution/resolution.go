// Package resolution maps named history ranges to a lookback window and a
// bucket width. Wider windows use wider buckets so a full response stays at
// roughly 144 points regardless of range.
package resolution

// Resolution identifies one entry of the fixed range table.
type Resolution int

const (
	OneHour Resolution = iota
	OneDay
	OneWeek
	OneMonth
	OneYear
	All
)

// Spec is one row of the table. Lookback is in seconds and only meaningful
// when Bounded is true; All has no lookback at all (every reading qualifies,
// including pre-epoch timestamps).
type Spec struct {
	Name        string
	Lookback    int64
	Bounded     bool
	BucketWidth int64
}

// Default is the fallback for unrecognized or absent range names. Lookup
// never fails; a typo'd name silently behaves like "24hr".
const Default = OneDay

var table = [...]Spec{
	OneHour:  {Name: "1hr", Lookback: 3600, Bounded: true, BucketWidth: 60},
	OneDay:   {Name: "24hr", Lookback: 86400, Bounded: true, BucketWidth: 600},
	OneWeek:  {Name: "1wk", Lookback: 604800, Bounded: true, BucketWidth: 1800},
	OneMonth: {Name: "1mo", Lookback: 2592000, Bounded: true, BucketWidth: 3600},
	OneYear:  {Name: "1yr", Lookback: 31536000, Bounded: true, BucketWidth: 21600},
	All:      {Name: "all", Bounded: false, BucketWidth: 43200},
}

// Spec returns the table row for r.
func (r Resolution) Spec() Spec {
	if r < OneHour || r > All {
		r = Default
	}
	return table[r]
}

// Resolve looks up a range by name, falling back to Default.
func Resolve(name string) Resolution {
	for r, spec := range table {
		if spec.Name == name {
			return Resolution(r)
		}
	}
	return Default
}
