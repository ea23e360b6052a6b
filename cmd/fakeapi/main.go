// Package main runs the in-memory bookmark API for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"

	"github.com/linkshelf/linkshelf/internal/auth"
	"github.com/linkshelf/linkshelf/internal/fakeapi"
	"github.com/linkshelf/linkshelf/internal/logger"
)

const usage = `fakeapi - in-memory bookmark API.

Usage:
    fakeapi [--addr=<addr>] [--key-dir=<dir>] [--rps=<n>] [--log-level=<level>]
    fakeapi -h | --help

Options:
    -h --help              Show this screen.
    --addr=<addr>          Listen address [default: :3333].
    --key-dir=<dir>        Keep the token signing key here so sessions survive restarts.
    --rps=<n>              Per-client request limit, 0 disables [default: 0].
    --log-level=<level>    debug, info, warn or error [default: info].`

const shutdownTimeout = 10 * time.Second

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
		os.Exit(2)
	}
	addr, _ := opts.String("--addr")
	keyDir, _ := opts.String("--key-dir")
	level, _ := opts.String("--log-level")
	rpsRaw, _ := opts.String("--rps")

	log := logger.New(logger.Config{Level: logger.ParseLevel(level), Environment: "development"})

	rps, err := strconv.ParseFloat(rpsRaw, 64)
	if err != nil || rps < 0 {
		log.Error("Invalid --rps", "value", rpsRaw)
		os.Exit(2)
	}

	var key []byte
	if keyDir != "" {
		if key, err = auth.LoadOrGenerateKey(keyDir); err != nil {
			log.Error("Failed to load signing key", "error", err)
			os.Exit(1)
		}
	}

	srv, err := fakeapi.NewServer(fakeapi.NewDB(), fakeapi.Options{
		SigningKey:        key,
		RequestsPerSecond: rps,
		Burst:             max(int(rps)*2, 1),
	}, log.Component("fakeapi"))
	if err != nil {
		log.Error("Failed to create server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Fake API listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
