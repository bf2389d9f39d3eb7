// The worker drains batch extraction jobs from Redis. The API stays
// interactive; anything too large for a request body gets enqueued with a
// storage path and lands here.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/geoagent-data/terrain.report/internal/config"
	"github.com/geoagent-data/terrain.report/internal/store"
	"github.com/geoagent-data/terrain.report/internal/tasks"
)

var (
	redisURL    = flag.String("redis", "redis://localhost:6379", "Redis connection URL")
	dbFile      = flag.String("db", "reports.db", "Path to the report database")
	configFile  = flag.String("config", "", "Path to a processing config JSON file")
	concurrency = flag.Int("concurrency", 5, "Number of concurrent task workers")
)

func main() {
	flag.Parse()

	cfg := config.EmptyProcessingConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadProcessingConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load processing config: %v", err)
		}
	}

	st, err := store.Open(*dbFile)
	if err != nil {
		log.Fatalf("failed to open report database: %v", err)
	}
	defer st.Close()

	redisOpt, err := asynq.ParseRedisURI(*redisURL)
	if err != nil {
		log.Fatalf("failed to parse Redis URL: %v", err)
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: *concurrency,
			Queues: map[string]int{
				"critical": 10,
				"default":  5,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task %s failed: %v (payload %s)", task.Type(), err, task.Payload())
			}),
		},
	)

	mux := asynq.NewServeMux()
	tasks.NewHandler(cfg, st).Register(mux)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Print("shutting down worker...")
		srv.Shutdown()
	}()

	log.Print("worker started")
	if err := srv.Run(mux); err != nil {
		log.Fatalf("failed to run worker: %v", err)
	}
}
