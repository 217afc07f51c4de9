package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"patient-scheduler/api"
	"patient-scheduler/appointment"
	"patient-scheduler/config"
	"patient-scheduler/ledger"
	"patient-scheduler/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(env("CONFIG_FILE", "scheduler.yaml"))
	if err != nil {
		log.Fatal("config:", err)
	}

	led := ledger.New(cfg.File)
	records, err := led.Load()
	if err != nil {
		log.Fatal("ledger load:", err)
	}
	log.Printf("loaded %d appointments from %s", len(records), cfg.File)

	store := appointment.NewStore(led, cfg.MaxPerHour, cfg.DatetimeFormat, records)

	service := api.NewAPI(store)
	service.RegisterRoutes()

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	handler := middleware.RateLimit(rl)(service.Handler())

	log.Printf("server starting on %s", cfg.Listen)
	log.Fatal(http.ListenAndServe(cfg.Listen, handler))
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
