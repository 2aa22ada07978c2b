package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpapi "task-manager.com/task-manager/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Migrates and mounts the enabled plugins, then serves the HTTP API until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := bootstrap()
		defer a.close()

		e := httpapi.NewServer(a.log)
		booted, err := a.registry.Boot(e, a.db, a.cfg.Plugins.Enabled)
		if err != nil {
			return err
		}
		if len(booted) == 0 {
			a.log.Warn("no plugins enabled, serving an empty API")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			a.log.Infof("HTTP server listening on %s", a.cfg.AppURL)
			if err := e.Start(a.cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.WithError(err).Error("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return err
		}

		a.log.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
