// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariebrainware/practice-records/config"
	"github.com/ariebrainware/practice-records/endpoint"
	"github.com/ariebrainware/practice-records/metrics"
	"github.com/ariebrainware/practice-records/middleware"
	"github.com/ariebrainware/practice-records/model"
	"github.com/ariebrainware/practice-records/store"
	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	st, err := store.New(db)
	if err != nil {
		log.Fatalf("Error opening store: %v", err)
	}
	if err := st.Migrate(model.AllModels()...); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}
	if cfg.AdminPassword != "" {
		if err := model.SeedAdminAccount(db, cfg.AdminUsername, util.HashPassword(cfg.AdminPassword)); err != nil {
			log.Fatalf("Error seeding admin account: %v", err)
		}
	}

	rdb, err := config.ConnectRedis(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting falls back to in-process buckets: %v", err)
		rdb = nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.EndpointCallLogger())
	router.Use(collector.Middleware())
	router.Use(middleware.DatabaseMiddleware(st))
	router.Use(middleware.MetricsMiddleware(collector))

	router.GET("/", endpoint.Index(cfg.AppName))
	router.GET("/metrics", gin.WrapH(metrics.Handler(reg)))
	endpoint.RegisterRoutes(router, middleware.RateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.ResetRateLimit,
		Window: cfg.ResetRateWindow,
		Redis:  rdb,
	}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.AppName, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}
	if err := st.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Server exited")
}
