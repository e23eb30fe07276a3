package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"scrublog/config"
	"scrublog/internal/messaging/consumer"
	"scrublog/internal/processing"
	"scrublog/internal/storage/store"
)

const workerConfigPath = "./config/worker.defaults.yml"

func main() {
	logger := log.New(os.Stdout, "[WORKER] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting scrub worker...")

	// 1. Load worker configuration
	workerCfg, err := config.LoadWorkerConfig(workerConfigPath)
	if err != nil {
		logger.Fatalf("FATAL: Failed to load worker configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize the persistence store. No DSN means the typed
	// unconfigured store: every save fails visibly and drives a batch
	// item failure.
	var recordStore store.Store
	if workerCfg.Database.Configured() {
		logger.Println("Initializing database connection...")
		recordStore, err = store.NewPostgresStore(ctx, workerCfg.Database.DSN,
			workerCfg.Database.MaxConnections, workerCfg.Database.MinConnections, logger)
		if err != nil {
			logger.Fatalf("FATAL: Failed to initialize database store: %v", err)
		}
	} else {
		recordStore = store.NewUnconfiguredStore(logger)
	}
	defer recordStore.Close()

	// 3. Initialize consumers (Kafka, or the mock consumer for local runs)
	var mqConsumers []consumer.Consumer
	if workerCfg.KafkaConsumer.Configured() {
		logger.Printf("Initializing %d Kafka message queue consumers...", workerCfg.KafkaConsumer.Count)
		for i := 0; i < workerCfg.KafkaConsumer.Count; i++ {
			kafkaConsumer, err := consumer.NewKafkaConsumer(workerCfg.KafkaConsumer, logger)
			if err != nil {
				logger.Fatalf("FATAL: Failed to initialize Kafka consumer %d: %v", i, err)
			}
			mqConsumers = append(mqConsumers, kafkaConsumer)
		}
	} else {
		logger.Println("Initializing Mock message queue consumer...")
		mqConsumers = append(mqConsumers, consumer.NewMockConsumer(logger))
	}

	defer func() {
		for _, c := range mqConsumers {
			c.Close()
		}
	}()

	// 4. Create and start one worker per consumer
	processor := processing.NewProcessor(recordStore, logger)

	var wg sync.WaitGroup
	for i, c := range mqConsumers {
		w := processing.New(workerCfg.Processing, logger, processor, c)

		wg.Add(1)
		go func(workerID int, w *processing.Worker) {
			defer wg.Done()
			logger.Printf("Starting worker %d with its dedicated consumer...", workerID)
			w.Run(ctx)
			logger.Printf("Worker %d stopped.", workerID)
		}(i+1, w)
	}

	logger.Printf("Scrub worker started with %d consumers. Press Ctrl+C to stop.", len(mqConsumers))

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Received shutdown signal, initiating graceful shutdown...")
	cancel()

	logger.Println("Waiting for all workers to finish...")
	wg.Wait()

	logger.Println("Scrub worker shut down gracefully.")
}
