package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/httpapi"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/service"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/types"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/utils"
)

type ReadingsController interface {
	RegisterRoutes(mux *http.ServeMux, apiKey string)
}

type readingsControllerImpl struct {
	service *service.Service
}

func NewReadingsController(svc *service.Service) ReadingsController {
	return &readingsControllerImpl{service: svc}
}

func (c *readingsControllerImpl) RegisterRoutes(mux *http.ServeMux, apiKey string) {
	mux.HandleFunc("POST /api/v1", httpapi.RequireAPIKey(apiKey, c.handleIngest))
	mux.HandleFunc("GET /api/v1", c.handleAggregate)
	mux.HandleFunc("GET /api/v1/raw", c.handleRaw)
	mux.HandleFunc("GET /api/v1/latest", c.handleLatest)

	// Catch-all for methods the API does not support. OPTIONS never reaches
	// it; the CORS middleware answers preflight before the mux.
	mux.HandleFunc("/api/v1", handleMethodNotAllowed)
	mux.HandleFunc("/api/v1/raw", handleMethodNotAllowed)
	mux.HandleFunc("/api/v1/latest", handleMethodNotAllowed)
}

func (c *readingsControllerImpl) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload types.IngestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid or incomplete data")
		return
	}

	if err := c.service.Ingest(payload); err != nil {
		if errors.Is(err, service.ErrInvalidPayload) {
			utils.WriteError(w, http.StatusBadRequest, "Invalid or incomplete data")
			return
		}
		slog.Error("ingest failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to insert data")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (c *readingsControllerImpl) handleAggregate(w http.ResponseWriter, r *http.Request) {
	records, err := c.service.Aggregate(r.URL.Query().Get("limit"))
	if err != nil {
		slog.Error("aggregate query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

func (c *readingsControllerImpl) handleRaw(w http.ResponseWriter, r *http.Request) {
	records, err := c.service.Raw(r.URL.Query().Get("limit"))
	if err != nil {
		slog.Error("raw query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

func (c *readingsControllerImpl) handleLatest(w http.ResponseWriter, r *http.Request) {
	rec, ok, err := c.service.Latest()
	if err != nil {
		slog.Error("latest query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "No readings")
		return
	}
	utils.WriteJSON(w, http.StatusOK, rec)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
