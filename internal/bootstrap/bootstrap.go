package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	plaidclient "github.com/GregMSThompson/finance-tracker/internal/client/plaid"
	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/store"
	"github.com/GregMSThompson/finance-tracker/internal/store/sqlite"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type Bootstrap struct {
	Log          *slog.Logger
	Repos        *store.Repositories
	Vault        store.TokenVault
	PlaidAdapter *plaidclient.Adapter

	closers []func() error
}

// Run builds the logger and every external client. On error the returned
// Bootstrap still carries a usable logger.
func Run(cfg *config.Config, handler func(slog.Level) slog.Handler) (*Bootstrap, error) {
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, handler)
	if err := cfg.Validate(); err != nil {
		return bs, err
	}

	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		bs.Repos = store.NewFirestoreRepositories(client)
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return bs, err
		}
		bs.Repos = db.Repositories()
	default:
		return bs, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	bs.closers = append(bs.closers, bs.Repos.Close)

	if err := bs.initVault(applicationCtx, cfg); err != nil {
		return bs, err
	}

	bs.PlaidAdapter = plaidclient.NewAdapter(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnvironment)

	bs.Log.Info("bootstrap complete",
		"store_backend", cfg.StoreBackend,
		"token_vault", cfg.TokenVault,
		"plaid_environment", cfg.PlaidEnvironment)
	return bs, nil
}

// Close releases clients in reverse order of creation.
func (bs *Bootstrap) Close() error {
	var errList []error
	for i := len(bs.closers) - 1; i >= 0; i-- {
		if err := bs.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	bs.closers = nil
	return errors.Join(errList...)
}
