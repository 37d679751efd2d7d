package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krishi-ledger/krishi-ledger/internal/platform/db"
	"github.com/krishi-ledger/krishi-ledger/internal/platform/mongodb"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
	"github.com/krishi-ledger/krishi-ledger/internal/sales/memory"
	"github.com/krishi-ledger/krishi-ledger/internal/sales/mongostore"
	salespg "github.com/krishi-ledger/krishi-ledger/internal/sales/postgres"
)

// OpenSalesRepository connects the store selected by STORE_DRIVER and
// prepares its schema. The returned func releases the connection.
func OpenSalesRepository(ctx context.Context, cfg *Config, logger *slog.Logger) (sales.Repository, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.StoreDriver {
	case StoreMemory:
		logger.Warn("using in-memory sales store, data is lost on restart")
		return memory.NewRepository(), func() {}, nil

	case StoreMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("mongodb disconnect", slog.Any("error", err))
			}
		}
		repo := mongostore.NewRepository(client.Database(cfg.MongoDatabase).Collection(mongostore.Collection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closer()
			return nil, nil, err
		}
		logger.Info("connected sales store", slog.String("driver", StoreMongo), slog.String("database", cfg.MongoDatabase))
		return repo, closer, nil

	case StorePostgres:
		pool, err := db.New(ctx, cfg.PGDSN, db.Options{PingTimeout: cfg.StoreTimeout})
		if err != nil {
			return nil, nil, err
		}
		repo := salespg.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure sales schema: %w", err)
		}
		logger.Info("connected sales store", slog.String("driver", StorePostgres))
		return repo, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
