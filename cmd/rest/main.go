package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"activity-tracker-be/internal/bootstrap"
	"activity-tracker-be/internal/config"
	"activity-tracker-be/internal/server"
	"activity-tracker-be/internal/tracer"
	"activity-tracker-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start tracking
	if cfg.Monitor.AutoStart {
		if err := container.MonitorService.Start(); err != nil {
			log.Printf("Tracker start failed: %v", err)
		}
	}

	// 5. Graceful shutdown: close the open session before exit.
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Println("Shutting down, closing open session...")
		if err := container.MonitorService.Stop(context.Background()); err != nil {
			log.Printf("Tracker stop failed: %v", err)
		}
		container.Logger.Sync()
		os.Exit(0)
	}()

	// 6. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
