package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lutefd/nbu-rates/internal/bootstrap"
	"github.com/Lutefd/nbu-rates/internal/commons"
	"github.com/Lutefd/nbu-rates/internal/logger"
	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/Lutefd/nbu-rates/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env")
	config, err := commons.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	deps, err := bootstrap.Init(config)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Printf("Error closing dependencies: %v", err)
		}
	}()

	if deps.LogRepo != nil {
		logger.InitLogger(deps.LogRepo, model.LogSourceAPI)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), commons.LoggerShutdownTimeout)
			defer cancel()
			if err := logger.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down logger: %v", err)
			}
		}()
	}

	srv := server.NewServer(config, deps.RateService)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}
