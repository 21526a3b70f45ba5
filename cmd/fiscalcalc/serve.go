package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/laurencehw/fiscal-policy-calculator/internal/api"
	"github.com/laurencehw/fiscal-policy-calculator/internal/store/sqlite"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Long: `Start the JSON API. Scored runs are saved to the history database
unless --no-history is set. Use --db :memory: for a throwaway history.

On SIGINT or SIGTERM the server stops accepting connections and waits up
to 30 seconds for in-flight requests.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "Listen address (default from FISCAL_HTTP_ADDR)")
	f.String("db", "", "History database path (default from FISCAL_DB_PATH)")
	f.Bool("no-history", false, "Do not save scored runs")
	f.StringSlice("cors-origin", nil, "Allowed browser origins (default: localhost)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var store *sqlite.Store
	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		if store, err = a.openStore(); err != nil {
			return err
		}
		defer store.Close()
	}

	origins, _ := cmd.Flags().GetStringSlice("cors-origin")
	handler := api.NewHandler(a.scorer, store, a.logger)
	handler.Horizon = a.horizon
	handler.Comparer.Workers = a.settings.Workers

	srv := &http.Server{
		Addr:              a.settings.HTTPAddr,
		Handler:           api.NewRouter(handler, origins),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", srv.Addr, "history", store != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	a.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
