// The grocartstub command runs the in-memory stub backend on the
// configured address. It exists for local development of the client and
// for demos; all state is lost when the process exits.
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/grocart/internal/config"
	"github.com/patric-chuzhbe/grocart/internal/logger"
	"github.com/patric-chuzhbe/grocart/internal/stubserver"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Println("Logger sync error:", err)
		}
	}()

	signingKey := make([]byte, 32)
	if _, err := rand.Read(signingKey); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    cfg.StubRunAddr,
		Handler: stubserver.New(signingKey).Handler(),
	}

	logger.Log.Infoln("stub server running", "addr", cfg.StubRunAddr)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal, exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			panic(fmt.Errorf("server shutdown error: %w", err))
		}
	case err := <-serverErrCh:
		panic(fmt.Errorf("server error: %w", err))
	}
}
