// Command stationd serves the Beidou station status API: a small set of
// read-only SQL queries executed concurrently against the hydrology
// database and exposed as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shrek82/stationd/config"
	"github.com/shrek82/stationd/executor"
	"github.com/shrek82/stationd/middleware"
	"github.com/shrek82/stationd/server"
)

func main() {
	var (
		addr     = flag.String("addr", ":8071", "listen address")
		driver   = flag.String("driver", envOr("STATIOND_DB_DRIVER", "oracle"), "database driver (oracle, mysql, postgres, sqlite3)")
		workers  = flag.Int("workers", 3, "max concurrent statements per batch")
		cacheTTL = flag.Duration("cache-ttl", 0, "cache station results for this long (0 disables)")
	)
	flag.Parse()

	if err := run(*addr, *driver, *workers, *cacheTTL); err != nil {
		fmt.Fprintln(os.Stderr, "stationd:", err)
		os.Exit(1)
	}
}

func run(addr, driver string, workers int, cacheTTL time.Duration) error {
	cfg := config.FromEnv()

	exec, err := executor.Open(driver, cfg)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer exec.Close()

	log := exec.Logger()

	if err := exec.Use(middleware.NewTracing()); err != nil {
		return err
	}
	if err := exec.Use(middleware.NewCircuitBreaker(5, 30*time.Second)); err != nil {
		return err
	}
	if slowMs := envOr("STATIOND_SLOW_LOG_MS", ""); slowMs != "" {
		var ms int
		fmt.Sscanf(slowMs, "%d", &ms)
		if err := exec.Use(middleware.NewSlowLog(time.Duration(ms)*time.Millisecond, envOr("STATIOND_SLOW_LOG_PATH", ""))); err != nil {
			return err
		}
	}
	if cacheTTL > 0 {
		if redisAddr := envOr("STATIOND_REDIS_ADDR", ""); redisAddr != "" {
			if err := exec.Use(middleware.NewRedisCache(&redis.Options{Addr: redisAddr})); err != nil {
				return err
			}
		} else {
			mc, err := middleware.NewMemoryCache(64)
			if err != nil {
				return err
			}
			if err := exec.Use(mc); err != nil {
				return err
			}
		}
	}

	srv := server.New(exec,
		server.WithMaxWorkers(workers),
		server.WithCacheTTL(cacheTTL),
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("station status API listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		log.Info("received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
