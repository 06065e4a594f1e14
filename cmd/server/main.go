// Package main provides the visualization server: it loads simulation
// dump directories, archives runs to PostgreSQL and ClickHouse, and
// serves graph, timeline, statistics and playback APIs over HTTP and
// WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	chstore "ln-sim-viz/internal/storage/clickhouse"
	"ln-sim-viz/internal/storage/memory"
	"ln-sim-viz/internal/storage/migrations"
	pgstore "ln-sim-viz/internal/storage/postgres"

	"ln-sim-viz/internal/server"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	loadDir := flag.String("load-dir", os.Getenv("LOAD_DIR"), "Simulation dump directory to load on startup (optional)")
	loadName := flag.String("load-name", "", "Name for the startup load (defaults to the directory)")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	srv := server.New(stores, logger)

	if *loadDir != "" {
		name := *loadName
		if name == "" {
			name = *loadDir
		}
		if _, err := srv.LoadRun(ctx, name, *loadDir); err != nil {
			logger.Fatalf("Startup load failed: %v", err)
		}
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: srv.Routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (server.Stores, func(), error) {
	if useMemory {
		stores := server.Stores{
			Runs:            memory.NewRunStore(),
			EdgeStats:       memory.NewEdgeStatsStore(),
			CapacitySamples: memory.NewCapacitySampleStore(),
			TimelineEvents:  memory.NewTimelineEventStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL: run archive
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return server.Stores{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return server.Stores{}, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse: derived series
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return server.Stores{}, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := server.Stores{
		Runs:            pgstore.NewRunStore(pool),
		EdgeStats:       pgstore.NewEdgeStatsStore(pool),
		CapacitySamples: chstore.NewCapacitySampleStore(chConn),
		TimelineEvents:  chstore.NewTimelineEventStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
