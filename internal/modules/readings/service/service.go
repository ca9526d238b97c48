// Package service implements the ingest and query semantics over the reading
// store: payload validation on the write path, the raw tail with its clamped
// limit, and time-bucketed averaging driven by the resolution table.
package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/repository"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/types"
)

// ErrInvalidPayload marks a write rejected by validation. Nothing is inserted.
var ErrInvalidPayload = errors.New("invalid or incomplete reading")

const (
	// rawDefaultLimit is substituted for any limit that is not an integer in
	// [1, rawMaxLimit]. The clamp is silent: a caller sending "bogus" gets
	// exactly the same response as one sending "100". Kept for compatibility
	// with the original API even though callers cannot detect a typo'd limit.
	rawDefaultLimit = 100
	rawMaxLimit     = 10000
)

// Service drives all reads and writes against the reading store.
type Service struct {
	repo repository.ReadingRepository
	now  func() time.Time
}

func NewService(repo repository.ReadingRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceWithClock is for tests that need a fixed query time.
func NewServiceWithClock(repo repository.ReadingRepository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// Ingest validates a payload and appends exactly one reading. There is no
// dedup key: submitting the same logical reading twice stores two rows.
func (s *Service) Ingest(p types.IngestPayload) error {
	if !p.Valid() {
		return ErrInvalidPayload
	}
	_, err := s.repo.InsertReading(types.Reading{
		Unix:     *p.Unix,
		Temp:     *p.Temp,
		Humidity: *p.Humidity,
		Pressure: *p.Pressure,
		Light:    *p.Light,
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return nil
}

// Raw returns stored readings unaggregated, oldest first. limit is either the
// token "all" (case-insensitive, returns everything) or an integer; anything
// else, including out-of-range integers and the empty string, is clamped to
// the default of 100 most recent rows.
func (s *Service) Raw(limit string) ([]types.Record, error) {
	if strings.EqualFold(limit, "all") {
		rows, err := s.repo.AllReadings()
		if err != nil {
			return nil, err
		}
		return toRecords(rows), nil
	}

	rows, err := s.repo.LatestReadings(clampRawLimit(limit))
	if err != nil {
		return nil, err
	}
	// Newest-first from the store; present oldest-first.
	reverse(rows)
	return toRecords(rows), nil
}

// Latest returns the most recently inserted reading, or ok=false when the
// store is empty.
func (s *Service) Latest() (types.Record, bool, error) {
	rows, err := s.repo.LatestReadings(1)
	if err != nil {
		return types.Record{}, false, err
	}
	if len(rows) == 0 {
		return types.Record{}, false, nil
	}
	return record(rows[0]), true, nil
}

func clampRawLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > rawMaxLimit {
		return rawDefaultLimit
	}
	return n
}

func reverse(rows []types.Reading) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

func toRecords(rows []types.Reading) []types.Record {
	out := make([]types.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, record(r))
	}
	return out
}

func record(r types.Reading) types.Record {
	return types.Record{
		Unix:     r.Unix,
		Temp:     r.Temp,
		Humidity: r.Humidity,
		Pressure: r.Pressure,
		Light:    r.Light,
	}
}
