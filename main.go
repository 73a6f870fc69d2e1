package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"pricescout/cache"
	"pricescout/config"
	"pricescout/handlers"
	"pricescout/middleware"
	"pricescout/scheduler"
	"pricescout/scraper"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

var startTime = time.Now()

// Metrics struct for basic monitoring
type Metrics struct {
	Timestamp     time.Time `json:"timestamp"`
	Uptime        string    `json:"uptime"`
	Goroutines    int       `json:"goroutines"`
	MemoryUsage   string    `json:"memory_usage"`
	CachedEntries int       `json:"cached_entries"`
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Initialize the result cache and its background sweeper
	resultCache := cache.New(cfg.CacheTTL)
	sweeper := scheduler.NewCacheSweeper(resultCache, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// Launch the headless browser
	priceScraper, err := scraper.NewScraper(cfg)
	if err != nil {
		log.Fatalf("Failed to create scraper: %v", err)
	}
	defer priceScraper.Close()

	h := handlers.NewHandlers(resultCache, priceScraper)

	// Setup router
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	if cfg.RateLimitEnabled {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS))
	}
	r.Use(middleware.AccessKey(cfg.ScraperKey))

	r.HandleFunc("/scrape", h.ScrapePrice).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/metrics", getMetrics(resultCache)).Methods("GET")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	log.Printf("UK price scraper starting on port %s", cfg.Port)
	log.Printf("   GET /scrape?url=...&key=... - Scrape a product price")
	log.Printf("   GET /health - Health check")
	log.Printf("   GET /metrics - System metrics")
	if cfg.ScraperKey == "" {
		log.Printf("SCRAPER_KEY not set, endpoint is open")
	}

	// Start server
	log.Fatal(http.ListenAndServe(cfg.Host+":"+cfg.Port, c.Handler(r)))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service":   "pricescout",
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   "1.0.0",
		"endpoints": map[string]string{
			"scrape":  "/scrape",
			"health":  "/health",
			"metrics": "/metrics",
		},
	}
	writeJSON(w, http.StatusOK, response)
}

func getMetrics(resultCache *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		metricsData := Metrics{
			Timestamp:     time.Now(),
			Uptime:        time.Since(startTime).String(),
			Goroutines:    runtime.NumGoroutine(),
			MemoryUsage:   fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			CachedEntries: resultCache.Len(),
		}

		writeJSON(w, http.StatusOK, metricsData)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
