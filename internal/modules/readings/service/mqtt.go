package service

import (
	"errors"
	"log/slog"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/mqtt"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings/types"
)

// RegisterMQTT attaches the ingest path to the MQTT subscriber so readings
// published by the sensor go through the same validation and store append as
// HTTP writes.
func (s *Service) RegisterMQTT(subscriber mqtt.MQTTSubscriber) {
	subscriber.SetMessageHandler(func(p types.IngestPayload) error {
		if err := s.Ingest(p); err != nil {
			if errors.Is(err, ErrInvalidPayload) {
				slog.Warn("mqtt reading rejected", "error", err)
				return nil
			}
			slog.Error("mqtt reading insert failed", "error", err)
			return err
		}
		slog.Debug("mqtt reading stored", "unix", *p.Unix)
		return nil
	})
}
