// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dalzilio/dvn/internal/metrics"
	"github.com/dalzilio/dvn/internal/server"
	"github.com/dalzilio/dvn/internal/session"
)

func runServe(cmd *cobra.Command, args []string) error {
	if listenAddr != "" {
		cfg.Addr = listenAddr
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	runner := session.New(logger, m, cfg.Options()...)
	h := server.New(runner, logger, reg, cfg.Workers, cfg.MaxRequestBytes)
	srv := server.NewHTTPServer(cfg.Addr, h.Routes())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening",
			slog.String("addr", cfg.Addr),
			slog.Int("workers", cfg.Workers),
			slog.Int("max_factor_size", cfg.MaxFactorSize),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
