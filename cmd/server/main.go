package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fortress-arena/internal/api"
	"fortress-arena/internal/config"
	"fortress-arena/internal/store"
)

func main() {
	// Load .env when present; plain environment variables otherwise.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	log.Println("================================")
	log.Println(" FORTRESS ARENA - BATTLE SERVER")
	log.Println("================================")

	appConfig := config.Load()
	log.Printf("config: port %d, db %s, rate %.0f rps/%d burst",
		appConfig.Server.Port, appConfig.Store.Path,
		appConfig.Server.RatePerSecond, appConfig.Server.RateBurst)

	db, err := store.Open(appConfig.Store.Path)
	if err != nil {
		log.Fatalf("open battle store: %v", err)
	}
	defer db.Close()

	if err := api.StartDebugServer(appConfig.Observability); err != nil {
		log.Printf("debug server disabled: %v", err)
	}

	srv := api.NewServer(appConfig.Server, db)

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Println("server stopped")
}
