package httpapi

import (
	"net/http"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/config"
)

func NewServer(cfg config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: requestLogger(cors(mux)),
	}
}
