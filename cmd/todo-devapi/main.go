// Command todo-devapi serves the in-memory todo REST API for local use.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/idilsaglam/tada/internal/fakeapi"
)

func main() {
	addr := pflag.String("addr", ":3000", "listen address")
	seed := pflag.StringSlice("user", nil, "user names to create at start")
	debug := pflag.Bool("debug", false, "log every request")
	pflag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend := fakeapi.New(logger)
	for _, name := range *seed {
		u := backend.SeedUser(name)
		logger.Info("seeded user", "id", u.ID, "name", u.Name)
	}

	srv := &http.Server{Addr: *addr, Handler: backend.Handler(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}
