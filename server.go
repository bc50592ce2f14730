package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bloglist/auth"
	"bloglist/events"
	"bloglist/handlers"
	"bloglist/limiter"
	"bloglist/metrics"
	"bloglist/storage"
	"bloglist/storage/in_memory"
	"bloglist/storage/persistent"
	"bloglist/tasks"
	"bloglist/tracing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	_ "github.com/motemen/go-loghttp/global"
)

// closers releases backend connections in reverse order of creation.
type closers []func() error

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			log.Printf("Failed to close resource: %s", err.Error())
		}
	}
}

func createStorage(ctx context.Context, cfg Config, cl *closers) (storage.Storage, error) {
	if cfg.StorageMode == InMemory {
		return in_memory.CreateInMemoryStorage(), nil
	}
	mongoStorage, err := persistent.CreateMongoStorage(ctx, cfg.MongoUrl, cfg.MongoDbName)
	if err != nil {
		return nil, err
	}
	*cl = append(*cl, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return mongoStorage.Close(ctx)
	})
	return mongoStorage, nil
}

func createPublisher(cfg Config, cl *closers) events.Publisher {
	if cfg.NatsUrl == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.CreateNatsPublisher(cfg.NatsUrl)
	if err != nil {
		log.Printf("Failed to connect to NATS, events are disabled: %s", err.Error())
		return events.NoopPublisher{}
	}
	*cl = append(*cl, publisher.Close)
	return publisher
}

func createLimiter(cfg Config, cl *closers) limiter.Limiter {
	if cfg.RedisUrl == "" {
		return limiter.NewInMemoryLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow)
	}
	redisLimiter := limiter.CreateRedisLimiter(cfg.RedisUrl, cfg.LoginMaxAttempts, cfg.LoginWindow)
	*cl = append(*cl, redisLimiter.Close)
	return redisLimiter
}

func createDispatcher(cfg Config) tasks.Dispatcher {
	if cfg.RedisUrl == "" {
		return tasks.NoopDispatcher{}
	}
	dispatcher, err := tasks.CreateDispatcher(cfg.RedisUrl)
	if err != nil {
		log.Printf("Failed to connect to task broker, statistics refresh is disabled: %s", err.Error())
		return tasks.NoopDispatcher{}
	}
	return dispatcher
}

// CreateRouter mounts the API and the metrics endpoint behind the common
// middleware stack.
func CreateRouter(handler *handlers.HTTPHandler, m *metrics.Metrics) http.Handler {
	r := mux.NewRouter()
	r.Handle(metrics.MetricsPath, m.Handler()).Methods("GET")
	handler.Register(r)

	return chi.Chain(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
		m.Middleware,
	).Handler(r)
}

func CreateServer(ctx context.Context, cfg Config) (*http.Server, closers, error) {
	var cl closers
	store, err := createStorage(ctx, cfg, &cl)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := auth.NewTokens(cfg.Secret, cfg.TokenTTL)
	if err != nil {
		cl.Close()
		return nil, nil, err
	}

	handler := &handlers.HTTPHandler{
		Storage:   store,
		Tokens:    tokens,
		Passwords: auth.NewPasswords(cfg.BcryptCost),
		Limiter:   createLimiter(cfg, &cl),
		Events:    createPublisher(cfg, &cl),
		Tasks:     createDispatcher(cfg),
	}
	router := CreateRouter(handler, metrics.NewMetrics())

	if cfg.ZipkinAddress != "" {
		tracingMiddleware, closeTracing, err := tracing.NewServerMiddleware(cfg.ZipkinAddress, cfg.Port)
		if err != nil {
			log.Printf("Failed to set up tracing: %s", err.Error())
		} else {
			router = tracingMiddleware(router)
			cl = append(cl, closeTracing)
		}
	}

	return &http.Server{
		Handler:      router,
		Addr:         "0.0.0.0:" + cfg.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}, cl, nil
}

// RunWorker consumes statistics tasks until the broker connection ends.
func RunWorker(ctx context.Context, cfg Config) error {
	var cl closers
	defer cl.Close()

	store, err := createStorage(ctx, cfg, &cl)
	if err != nil {
		return err
	}
	job := &tasks.StatsJob{Storage: store, Events: createPublisher(cfg, &cl)}
	return tasks.CreateWorker(cfg.RedisUrl, job)
}
