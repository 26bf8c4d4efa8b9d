// Command companydb-server starts the HTTP API and web form for table
// design and DDL generation.
//
// Usage:
//
//	go run ./cmd/companydb-server -addr :8080
//	go run ./cmd/companydb-server -config /etc/companydb/config.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"companydb/internal/config"
	applog "companydb/internal/logger"
	"companydb/internal/metrics"
	"companydb/internal/metrics/prompush"
	"companydb/internal/storage/postgres"
	"companydb/internal/storage/sqlite"
	"companydb/internal/webui"
)

// server is what run needs from the web layer; webui.Server satisfies it.
type server interface {
	ListenAndServe() error
}

// newServer is swappable in tests.
var newServer = func(cfg webui.Config) server {
	return webui.NewServer(cfg)
}

// run wires config into the web server. Split from main so tests can drive
// it with fake servers and a captive logger.
func run(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("companydb-server", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides config)")
	configPath := fs.String("config", "", "YAML config file")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			return err
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *debug {
		cfg.Debug = true
	}
	applog.SetDebug(cfg.Debug)

	issues := config.Validate(cfg)
	for _, i := range issues {
		logger.Printf("config: %s", i.Error())
	}
	if errs := config.Errors(issues); len(errs) > 0 {
		return errs[0]
	}

	ctx := context.Background()
	webCfg := webui.Config{
		Addr:  cfg.Server.Addr,
		Apply: cfg.Server.Apply,
	}

	if cfg.Database.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		webCfg.Execer = postgres.NewExecutor(pool)
		if cfg.History.Backend == "postgres" {
			webCfg.History = postgres.NewHistoryStore(pool)
		}
	}

	if cfg.History.Backend == "sqlite" {
		store, closeStore, err := sqlite.Open(ctx, cfg.History.SQLitePath)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.Init(ctx); err != nil {
			return err
		}
		webCfg.History = store
	}

	if cfg.Metrics.PushgatewayURL != "" {
		backend, err := prompush.NewBackend(cfg.Metrics.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			return err
		}
		metrics.SetBackend(backend)
		defer func() {
			if err := metrics.Flush(); err != nil {
				logger.Printf("metrics flush: %v", err)
			}
		}()
	}

	logger.Printf("listening on %s", cfg.Server.Addr)
	return newServer(webCfg).ListenAndServe()
}

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := run(os.Args[1:], logger); err != nil {
		logger.Fatal(err)
	}
}
