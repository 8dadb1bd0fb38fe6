package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantrygo/internal/api"
	"pantrygo/internal/auth"
	"pantrygo/internal/config"
	"pantrygo/internal/monitoring"
	"pantrygo/internal/pantry"
	"pantrygo/internal/recipe"
	"pantrygo/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	itemStore, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer itemStore.Close()

	requester, err := recipe.NewRequester(recipe.Options{
		BaseURL: cfg.Recipe.BaseURL,
		Model:   cfg.Recipe.Model,
		APIKey:  cfg.Recipe.APIKey,
		Timeout: time.Duration(cfg.Recipe.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to initialize recipe client: %v", err)
	}

	metrics := monitoring.NewMetrics()
	gateway := auth.NewGateway(cfg.Auth.JWTSecret)
	controller := pantry.NewController(itemStore, requester, metrics)

	server := api.NewServer(gateway, controller)
	defer server.Close()

	go startMetricsServer(cfg.Server.MetricsPort, metrics)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, metrics *monitoring.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
