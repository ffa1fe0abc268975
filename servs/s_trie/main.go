package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/pkg/x_log"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_serv"
)

func main() {
	// Load config: TRIE_CONFIG file, then TRIE_* variables
	cfg, err := config.Resolve(os.Getenv(config.EnvConfigPath))
	if err != nil {
		x_log.Fatal().Err(err).Msg("invalid config")
	}
	x_log.InitWithConfig(cfg.Log(), trie_serv.ServiceName)
	defer x_log.Sync()

	// Init and start service
	svc := trie_serv.New(cfg)
	if err := svc.Init(); err != nil {
		x_log.Error().Err(err).Msg("init failed")
		_ = svc.Stop()
		os.Exit(1)
	}
	if err := svc.Start(); err != nil {
		x_log.Error().Err(err).Msg("start failed")
		_ = svc.Stop()
		os.Exit(1)
	}

	// Wait for termination
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := svc.Stop(); err != nil {
		x_log.Error().Err(err).Msg("shutdown")
	}
}
