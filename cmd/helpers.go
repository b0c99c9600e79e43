package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/db"
	"github.com/clauselens/clauselens/internal/state"
)

// loadConfig reads and validates the configuration file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openDatabase opens the local SQLite database in the data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	return db.Open(filepath.Join(cfg.DataDir, "clauselens.db"))
}

// buildClient creates a backend client carrying the persisted session
// token, if any.
func buildClient(ctx context.Context, cfg *config.Config, database *db.DB) (*api.Client, error) {
	client := api.New(cfg.BackendURL, time.Duration(cfg.RequestTimeout)*time.Second)

	store := state.NewDBStore(database)
	token, err := store.Get(ctx, state.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("loading session token: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}
	return client, nil
}
