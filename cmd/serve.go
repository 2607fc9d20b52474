package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/api"
	"github.com/sells-group/brand-insights/internal/discovery"
	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/scraper"
	"github.com/sells-group/brand-insights/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the brand insights HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var st store.Store
		if cfg.Store.Enabled {
			var err error
			st, err = store.Open(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		scrape := func(ctx context.Context, url string) (*model.BrandContext, error) {
			return scraper.GetInsights(ctx, url, cfg.Scrape)
		}
		server := api.NewServer(scrape, discovery.New(cfg.Discovery), st, cfg.Scrape.MaxFanout)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
