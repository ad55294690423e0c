package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/studydeck/internal/config"
	"github.com/abhisek/studydeck/internal/gateway"
	"github.com/abhisek/studydeck/internal/store"
	"github.com/spf13/cobra"
)

// openStore opens the database selected by --db.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// loadFileConfig reads the TOML config selected by --config. A missing file
// yields the zero config.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	return config.LoadConfig(resolveConfigPath(cmd))
}

// gatewayConfig resolves content service settings: environment first, then
// the config file, then defaults.
func gatewayConfig(fc config.FileConfig) (gateway.Config, error) {
	cfg, err := gateway.ConfigFromEnv()
	if err != nil {
		return gateway.Config{}, fmt.Errorf("read API config: %w", err)
	}
	if fc.API.URL != nil && !envSet("STUDYDECK_API_URL") {
		cfg.BaseURL = *fc.API.URL
	}
	if fc.API.Timeout != nil && !envSet("STUDYDECK_API_TIMEOUT") {
		d, err := time.ParseDuration(*fc.API.Timeout)
		if err != nil {
			return gateway.Config{}, fmt.Errorf("config api.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, cfg.Validate()
}

// newGateway builds the HTTP content service client with request logging.
func newGateway(fc config.FileConfig, repo store.EventRepo) (gateway.Gateway, error) {
	cfg, err := gatewayConfig(fc)
	if err != nil {
		return nil, err
	}
	client, err := gateway.NewClient(cfg, nil)
	if err != nil {
		return nil, err
	}
	return gateway.WithLogging(client, repo), nil
}

func envSet(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}
