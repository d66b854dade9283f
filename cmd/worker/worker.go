package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lutefd/nbu-rates/internal/bootstrap"
	"github.com/Lutefd/nbu-rates/internal/cache"
	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/Lutefd/nbu-rates/internal/logger"
	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/Lutefd/nbu-rates/internal/repository"
	"github.com/Lutefd/nbu-rates/internal/worker"
	"github.com/joho/godotenv"
)

var errNothingToRun = errors.New("nothing to run: set UPDATE_SCHEDULE or LOG_TO_POSTGRES")

type dependencies struct {
	sink         repository.RowSink
	cache        cache.Cache
	logRepo      repository.LogRepository
	rateUpdater  RateUpdater
	partitionMgr PartitionManager
}

type RateUpdater interface {
	Start(ctx context.Context)
}

type PartitionManager interface {
	Start(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	config, err := commons.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	deps, err := initDependencies(config)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- runWorker(ctx, deps)
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Worker failed: %v", err)
		}
	case <-signalChan:
		log.Println("Shutdown signal received, initiating graceful shutdown...")
		cancel()

		select {
		case <-errChan:
			log.Println("Worker shut down gracefully")
		case <-time.After(commons.WorkerShutdownTimeout):
			log.Println("Shutdown timed out")
		}
	}
}

func initDependencies(config commons.Config) (*dependencies, error) {
	base, err := bootstrap.Init(config)
	if err != nil {
		return nil, err
	}

	deps := &dependencies{
		sink:    base.Sink,
		cache:   base.Cache,
		logRepo: base.LogRepo,
	}

	if config.UpdateSchedule != "" {
		rateUpdater, err := worker.NewRateUpdater(base.RateService, config.UpdateSchedule, config.Location)
		if err != nil {
			base.Close()
			return nil, fmt.Errorf("failed to initialize rate updater: %w", err)
		}
		deps.rateUpdater = rateUpdater
	}

	if base.LogRepo != nil {
		deps.partitionMgr = logger.NewPartitionManager(base.LogRepo)
	}

	return deps, nil
}

// runWorker blocks until ctx is done or startup fails. The rate updater,
// when configured, returns only after its last run has finished, so the
// sink is never closed under an in-flight append.
func runWorker(ctx context.Context, deps *dependencies) error {
	if deps.rateUpdater == nil && deps.partitionMgr == nil {
		return errNothingToRun
	}

	if deps.logRepo != nil {
		logger.InitLogger(deps.logRepo, model.LogSourceWorker)
	}
	defer deps.close()

	if deps.partitionMgr != nil {
		if err := deps.partitionMgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start partition manager: %w", err)
		}
	}

	if deps.rateUpdater != nil {
		deps.rateUpdater.Start(ctx)
	}

	<-ctx.Done()
	logger.Info("Worker shutting down...")
	return ctx.Err()
}

func (d *dependencies) close() {
	if err := d.sink.Close(); err != nil {
		log.Printf("Error closing row sink: %v", err)
	}
	if err := d.cache.Close(); err != nil {
		log.Printf("Error closing cache: %v", err)
	}
	if d.logRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), commons.LoggerShutdownTimeout)
		defer cancel()
		if err := logger.Shutdown(ctx); err != nil {
			log.Printf("Error closing log repository: %v", err)
		}
	}
}
