package main

import (
	"context"
	"log"

	"creation-workshop-be/internal/bootstrap"
	"creation-workshop-be/internal/config"
	"creation-workshop-be/internal/server"
	"creation-workshop-be/internal/tracer"
	"creation-workshop-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 4. Start Event Flows (chat bus, NATS consumers, expiry sweep)
	if err := container.Start(context.Background()); err != nil {
		log.Panicf("Unable to start coordinator flows: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
