package main

import (
	"flag"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuscheers/cheerd/internal/app"
	"github.com/campuscheers/cheerd/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	_ = godotenv.Load()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	pollHandler := handlers.NewPollHandler(service)

	http.HandleFunc("POST /api/v1/login", pollHandler.HandleLogin)
	http.HandleFunc("GET /api/v1/schools", pollHandler.HandleListSchools)
	http.HandleFunc("GET /api/v1/schools/{school}/polls/today", pollHandler.HandleTodaysPoll)
	http.HandleFunc("POST /api/v1/polls/{poll}/responses", pollHandler.HandleSubmitResponse)
	http.HandleFunc("GET /api/v1/polls/{poll}/voted", pollHandler.HandleHasVoted)
	http.HandleFunc("GET /api/v1/polls/{poll}/results", pollHandler.HandleResults)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting cheerd server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("cheerd server failed: %v", err)
	}
}
