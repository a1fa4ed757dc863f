package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"report-checker/api/internal/config"
	"report-checker/api/internal/handle"
	"report-checker/api/internal/httpserver"
	"report-checker/api/internal/metrics"
	"report-checker/api/internal/review"
)

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "report-checker",
		Short:        "Grade academic reports against rubric requirements",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "optional YAML config file")

	cmd.AddCommand(serveCmd(&configPath), checkCmd(&configPath))
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /api/check over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())
			m := metrics.New()

			rv, err := buildReviewer(cfg, log, m)
			if err != nil {
				return err
			}
			mux := httpserver.NewMux(handle.New(rv, cfg.MaxBodyBytes), m.Handler(), "ok")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("report-checker starting", "provider", cfg.Provider, "port", cfg.Port)
			return httpserver.StartHTTP(ctx, net.JoinHostPort("", cfg.Port), mux, log)
		},
	}
}

func checkCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check <request.json | ->",
		Short: "Run one check request from a file and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			var body []byte
			if args[0] == "-" {
				body, err = io.ReadAll(cmd.InOrStdin())
			} else {
				body, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}

			rv, err := buildReviewer(cfg, log, nil)
			if err != nil {
				return err
			}
			resp := rv.Handle(context.Background(), review.Request{Method: http.MethodPost, Body: body})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp.Body); err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("check failed with status %d", resp.StatusCode)
			}
			return nil
		},
	}
}
