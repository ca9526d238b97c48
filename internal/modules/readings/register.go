package readings

import (
	"database/sql"
	"net/http"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/controller"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/repository"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/service"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/mqtt"
)

// RegisterFeature wires the readings module: store, service, HTTP routes and,
// when a subscriber is given, the MQTT ingest path.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, apiKey string, subscriber mqtt.MQTTSubscriber) {
	repo := repository.NewRepository(db)
	svc := service.NewService(repo)
	ctrl := controller.NewReadingsController(svc)
	ctrl.RegisterRoutes(mux, apiKey)
	if subscriber != nil {
		svc.RegisterMQTT(subscriber)
	}
}
