package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/leer0ybr0wn/enviro-fullstack/internal/config"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/db"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/httpapi"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/migrate"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/modules/readings"
	"github.com/leer0ybr0wn/enviro-fullstack/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"mqttEnabled", cfg.MQTTEnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(dbConn); err != nil {
		return err
	}
	slog.Info("database ready")

	var subscriber *mqtt.Subscriber
	var sub mqtt.MQTTSubscriber
	if cfg.MQTTEnabled {
		subscriber = mqtt.NewSubscriber(cfg, slog.Default())
		sub = subscriber
	}

	mux := httpapi.NewMux(dbConn, cfg.StaticDir)
	readings.RegisterFeature(mux, dbConn, cfg.APIKey, sub)

	if subscriber != nil {
		// Short timeout on the initial connect so startup does not block when
		// the broker is down; the client keeps retrying in the background.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if subscriber != nil {
		slog.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
