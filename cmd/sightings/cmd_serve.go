package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jengzang/telco-sightings-go/internal/api"
	"github.com/jengzang/telco-sightings-go/internal/database"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stored dataset over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Server.Port = port
			}

			// 初始化数据库
			if err := database.Init(database.Config{Path: cfg.Database.Path}, logger); err != nil {
				return err
			}
			defer database.Close()

			gin.SetMode(gin.ReleaseMode)
			router, release := api.SetupRouter(cfg, database.GetDB(), logger)
			defer release()

			srv := &http.Server{
				Addr:              cfg.Server.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Infof("Server starting on %s", cfg.Server.Port)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Received termination signal. Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("port", "", "Listen address, e.g. :8080 (default server.port)")

	return cmd
}
