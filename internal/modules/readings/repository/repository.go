package repository

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/types"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-latest-readings.sql
var getLatestReadingsSQL string

//go:embed sql/get-all-readings.sql
var getAllReadingsSQL string

//go:embed sql/get-readings-since.sql
var getReadingsSinceSQL string

//go:embed sql/get-readings-by-time.sql
var getReadingsByTimeSQL string

// ReadingRepository is the append-only reading store. Rows are immutable once
// inserted; there is no update or delete path.
type ReadingRepository interface {
	// InsertReading appends one reading and returns its store-assigned
	// sequence number.
	InsertReading(r types.Reading) (int64, error)
	// LatestReadings returns up to limit rows, newest first by sequence.
	LatestReadings(limit int) ([]types.Reading, error)
	// AllReadings returns every row in insertion order (sequence ascending).
	AllReadings() ([]types.Reading, error)
	// ReadingsSince returns rows with unix_ts >= start, ordered by unix_ts
	// ascending.
	ReadingsSince(start int64) ([]types.Reading, error)
	// ReadingsByTime returns every row ordered by unix_ts ascending, with no
	// time filter of any kind.
	ReadingsByTime() ([]types.Reading, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ReadingRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) InsertReading(reading types.Reading) (int64, error) {
	res, err := r.db.Exec(insertReadingSQL,
		reading.Unix, reading.Temp, reading.Humidity, reading.Pressure, reading.Light)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert reading: last insert id: %w", err)
	}
	return seq, nil
}

func (r *repositoryImpl) LatestReadings(limit int) ([]types.Reading, error) {
	return r.query(getLatestReadingsSQL, limit)
}

func (r *repositoryImpl) AllReadings() ([]types.Reading, error) {
	return r.query(getAllReadingsSQL)
}

func (r *repositoryImpl) ReadingsSince(start int64) ([]types.Reading, error) {
	return r.query(getReadingsSinceSQL, start)
}

func (r *repositoryImpl) ReadingsByTime() ([]types.Reading, error) {
	return r.query(getReadingsByTimeSQL)
}

func (r *repositoryImpl) query(q string, args ...any) ([]types.Reading, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

func scanReadings(rows *sql.Rows) ([]types.Reading, error) {
	var out []types.Reading
	for rows.Next() {
		var rec types.Reading
		if err := rows.Scan(&rec.Seq, &rec.Unix, &rec.Temp, &rec.Humidity, &rec.Pressure, &rec.Light); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
