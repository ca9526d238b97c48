package types

import "math"

// Reading is one stored sensor observation. Seq is assigned by the store at
// insert time and strictly increases with arrival order; Unix is the
// caller-supplied event time in seconds since epoch and is what the query
// paths order and group by.
type Reading struct {
	Seq      int64
	Unix     int64
	Temp     float64
	Humidity float64
	Pressure float64
	Light    float64
}

// Record is the wire shape shared by raw rows and aggregated buckets. For a
// bucket, Unix is the bucket start and the metrics are rounded means.
type Record struct {
	Unix     int64   `json:"unix"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Pressure float64 `json:"pressure"`
	Light    float64 `json:"light"`
}

// IngestPayload is the inbound write body. Fields are pointers so a missing
// key can be told apart from a zero value.
type IngestPayload struct {
	Unix     *int64   `json:"unix"`
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	Pressure *float64 `json:"pressure"`
	Light    *float64 `json:"light"`
}

// Valid reports whether all five fields are present and the metric values are
// finite. Physically impossible but finite values (humidity above 100,
// negative light) are accepted as-is; calibration belongs to the collector.
func (p IngestPayload) Valid() bool {
	if p.Unix == nil {
		return false
	}
	for _, v := range []*float64{p.Temp, p.Humidity, p.Pressure, p.Light} {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			return false
		}
	}
	return true
}
