// Package cmd_serv runs the dictionary service and talks to it.
package cmd_serv

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/pkg/x_log"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_serv"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the serve command. Settings come from --config, or
// TRIE_CONFIG and TRIE_* variables.
func NewServeCmd() *cobra.Command {
	var (
		cfgPath string
		embed   bool
		httpOn  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dictionary service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("embedded") {
				cfg.NATS.Embedded = embed
			}
			if cmd.Flags().Changed("http") {
				cfg.HTTP.Enabled = httpOn
			}
			x_log.InitWithConfig(cfg.Log(), trie_serv.ServiceName)
			defer x_log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (JSON or YAML)")
	cmd.Flags().BoolVar(&embed, "embedded", false, "start an in-process NATS server")
	cmd.Flags().BoolVar(&httpOn, "http", false, "serve the HTTP API")
	return cmd
}

// serve runs the service until ctx is done.
func serve(ctx context.Context, cfg *config.Config) error {
	x_log.Debug().RawJSON("config", []byte(cfg.String())).Msg("effective config")
	if cfg.HTTP.Enabled && cfg.DB.DSN == "" {
		x_log.Warn().Str("addr", cfg.HTTP.Addr).Msg("http api without users, save and load are open")
	}
	svc := trie_serv.New(cfg)
	if err := svc.Init(); err != nil {
		_ = svc.Stop()
		return fmt.Errorf("init: %w", err)
	}
	if err := svc.Start(); err != nil {
		_ = svc.Stop()
		return fmt.Errorf("start: %w", err)
	}
	x_log.Info().Str("nats", svc.ClientURL()).Int("words", svc.Store().Len()).Msg("ready")
	<-ctx.Done()
	x_log.Info().Msg("shutting down")
	return svc.Stop()
}

// NewLogsCmd prints the tail of the configured log file.
func NewLogsCmd() *cobra.Command {
	var (
		cfgPath string
		lines   int
		file    string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the last lines of the service log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				cfg, err := config.Resolve(cfgPath)
				if err != nil {
					return err
				}
				file = cfg.Logger.LogFile
			}
			out, err := x_log.Tail(file, lines)
			if err != nil {
				return err
			}
			for _, l := range out {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (JSON or YAML)")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines")
	cmd.Flags().StringVarP(&file, "file", "f", "", "log file, defaults to logger.log_file")
	return cmd
}
