package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"scrublog/config"
	"scrublog/internal/httpapi"
	"scrublog/internal/messaging/producer"
)

// Ingestion service configuration file path
const ingestionConfigPath = "./config/ingestion.defaults.yml"

func main() {
	logger := log.New(os.Stdout, "[INGEST] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting ingestion API service...")

	// 1. Load ingestion configuration
	cfg, err := config.LoadIngestionConfig(ingestionConfigPath)
	if err != nil {
		logger.Fatalf("Failed to load ingestion configuration: %v", err)
	}

	// 2. Initialize the queue producer (Kafka, or local/degraded mode
	// when no endpoint is configured)
	logger.Println("Initializing queue producer...")
	queueProducer, err := producer.New(cfg.KafkaProducer, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize queue producer: %v", err)
	}
	defer queueProducer.Close()

	// 3. Create the HTTP handler and server
	handler := httpapi.NewHandler(queueProducer, cfg.RateLimit, logger)

	httpServer := &http.Server{
		Addr:           cfg.HttpListenAddr,
		Handler:        handler.Routes(),
		ReadTimeout:    config.Duration(cfg.HttpServer.ReadTimeout, 5*time.Second),
		WriteTimeout:   config.Duration(cfg.HttpServer.WriteTimeout, 10*time.Second),
		IdleTimeout:    config.Duration(cfg.HttpServer.IdleTimeout, 60*time.Second),
		MaxHeaderBytes: cfg.HttpServer.MaxHeaderBytes,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Printf("HTTP server listening on %s (queue mode: %s)", cfg.HttpListenAddr, queueProducer.Mode())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server startup failed: %v", err)
		}
		logger.Println("HTTP server stopped listening.")
	}()

	// 4. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Printf("Received shutdown signal: %s, starting graceful shutdown...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server shutdown failed: %v", err)
	}

	wg.Wait()
	logger.Println("Ingestion API service shutdown.")
}
