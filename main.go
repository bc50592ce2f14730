package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %s", err.Error())
	}
	cfg := LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.AppMode {
	case ServerMode:
		srv, cl, err := CreateServer(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create server: %s", err.Error())
		}
		defer cl.Close()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Failed to shut down server: %s", err.Error())
			}
		}()

		log.Printf("Start serving on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case WorkerMode:
		if err := RunWorker(ctx, cfg); err != nil {
			log.Fatal(err)
		}
	}
}
