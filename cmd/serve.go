package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorforge/internal/api"
	"github.com/abhisek/tutorforge/internal/contentgen"
	"github.com/abhisek/tutorforge/internal/llm"
	"github.com/abhisek/tutorforge/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var (
			eventRepo  store.EventRepo
			resultRepo store.ResultRepo
		)
		if !cfg.Store.Disabled {
			dbPath, err := resolveDBPath(cfg)
			if err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()
			eventRepo = st.EventRepo()
			resultRepo = st.ResultRepo()
			log.Info("store opened", "path", dbPath)
		}

		provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo, log)
		if err != nil {
			return fmt.Errorf("init llm provider: %w", err)
		}

		if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		gen := contentgen.NewGenerator(provider, cfg.Generation, log)
		router := api.NewRouter(cfg.Server, api.NewHandler(gen, resultRepo, log), log)
		srv := api.NewServer(cfg.Server, router)

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", "addr", cfg.Server.Addr, "provider", cfg.LLM.Provider, "model", provider.ModelID())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
