package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zkiot/revocation-registry/internal/authority"
	"github.com/zkiot/revocation-registry/internal/config"
	"github.com/zkiot/revocation-registry/internal/ledger"
	"github.com/zkiot/revocation-registry/internal/proofreq"
	"github.com/zkiot/revocation-registry/internal/prover"
	"github.com/zkiot/revocation-registry/internal/registry"
	"github.com/zkiot/revocation-registry/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Shutdown signal received: %s", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("Registry error: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	signingKey, err := config.LoadSigningKey(cfg)
	if err != nil {
		return err
	}
	announcer, err := authority.NewAnnouncer(signingKey)
	if err != nil {
		return err
	}

	// Event log: badger when a path is configured, in-memory otherwise.
	var eventLog ledger.Log
	if cfg.LedgerPath != "" {
		badgerLog, err := ledger.OpenBadgerLog(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer badgerLog.Close()
		eventLog = badgerLog
		log.Printf("Ledger: badger at %s", cfg.LedgerPath)
	} else {
		eventLog = ledger.NewMemoryLog()
		log.Printf("Ledger: in-memory (set %s for persistence)", config.EnvLedgerPath)
	}

	engine := registry.NewEngine(registry.NewMemoryStore())
	svc := registry.NewService(engine, eventLog, announcer)

	// The proving backend is optional: circuit compilation and key setup
	// take a while, and status/revocation endpoints do not need it.
	var prv prover.Prover
	if cfg.ProverEnabled {
		start := time.Now()
		g16, err := prover.NewGroth16()
		if err != nil {
			return err
		}
		prv = g16
		log.Printf("Groth16 backend ready in %s", time.Since(start))
	}

	srv := server.New(
		server.Config{
			Host:         cfg.ServerHost,
			Port:         cfg.ServerPort,
			ReadTimeout:  time.Duration(cfg.ServerReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.ServerWriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.ServerIdleTimeoutSec) * time.Second,
		},
		svc,
		proofreq.NewBuilder(),
		prv,
	)

	// Start server (blocks until context is cancelled)
	return srv.Start(ctx)
}
