package repository

import (
	"context"
	"fmt"

	"github.com/AzielCF/watercooler-fc/core/config"
	"github.com/AzielCF/watercooler-fc/core/database"
	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/AzielCF/watercooler-fc/infrastructure/valkey"
	"github.com/sirupsen/logrus"
)

// NewStore opens the durable store selected by cfg.Store.Driver.
func NewStore(ctx context.Context, cfg *config.Config) (domainStorage.IStore, error) {
	driver := cfg.Store.Driver
	if driver == "" {
		driver = domainStorage.DriverGorm
	}

	switch driver {
	case domainStorage.DriverMemory:
		logrus.Warn("[STORE] Using in-memory store, nothing will survive a restart")
		return NewMemoryStore(), nil

	case domainStorage.DriverGorm:
		db, err := database.NewDatabase(cfg)
		if err != nil {
			return nil, err
		}
		store := NewGormStore(db)
		if err := store.InitSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate store schema: %w", err)
		}
		logrus.Debugf("[STORE] gorm store ready (%s)", cfg.Database.Driver)
		return store, nil

	case domainStorage.DriverSQL:
		db, err := database.NewSQL(cfg)
		if err != nil {
			return nil, err
		}
		store := NewSQLStore(db, cfg.Database.Driver)
		if err := store.InitSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create store table: %w", err)
		}
		logrus.Debugf("[STORE] sql store ready (%s)", cfg.Database.Driver)
		return store, nil

	case domainStorage.DriverValkey:
		client, err := valkey.NewClient(valkey.ConfigFrom(cfg))
		if err != nil {
			return nil, err
		}
		logrus.Debugf("[STORE] valkey store ready (%s)", cfg.Database.ValkeyAddress)
		return NewValkeyStore(client), nil
	}

	return nil, fmt.Errorf("unsupported store driver: %s", driver)
}
