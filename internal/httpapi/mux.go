package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux builds the base mux with the health endpoint and, when staticDir is
// non-empty, the static frontend at /. Feature modules register their own
// routes on top.
func NewMux(db *sql.DB, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	if staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}
