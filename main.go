package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/geoagent-data/terrain.report/internal/api"
	"github.com/geoagent-data/terrain.report/internal/config"
	"github.com/geoagent-data/terrain.report/internal/store"
	"github.com/geoagent-data/terrain.report/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbFile     = flag.String("db", "reports.db", "Path to the report database (empty disables persistence)")
	configFile = flag.String("config", "", "Path to a processing config JSON file")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := config.EmptyProcessingConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadProcessingConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load processing config: %v", err)
		}
		log.Printf("loaded processing config from %s", *configFile)
	}

	var st *store.Store
	if *dbFile != "" {
		var err error
		st, err = store.Open(*dbFile)
		if err != nil {
			log.Fatalf("failed to open report database: %v", err)
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := api.NewServer(cfg, st).Routes()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("got request %q", r.URL.Path)
		mux.ServeHTTP(w, r)
	})

	server := &http.Server{
		Addr:    *listen,
		Handler: h,
	}

	go func() {
		log.Printf("terrain.report %s listening on %s", version.Version, *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
