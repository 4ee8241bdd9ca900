// Command riskctl runs risk analyses, village lookups and tile downloads
// in-process, without the HTTP server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/hazard-risk-service/internal/app"
	"github.com/couchcryptid/hazard-risk-service/internal/config"
	"github.com/couchcryptid/hazard-risk-service/internal/observability"
)

func main() {
	root := newRootCmd(func() (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		// Logs go to stderr so stdout stays machine-readable.
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		return app.New(cfg, logger, observability.NewMetrics())
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
