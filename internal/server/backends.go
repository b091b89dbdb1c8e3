package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nordicmaskin/kma/config"
	"github.com/nordicmaskin/kma/internal/db"
	"github.com/nordicmaskin/kma/internal/mq"
	"github.com/nordicmaskin/kma/internal/storage"
	"github.com/nordicmaskin/kma/internal/tabular"
)

// Tables is the record store plus whatever must be closed with it.
type Tables struct {
	*tabular.Store
	db *sql.DB
}

// Close releases the database connection of the postgres backend.
func (t *Tables) Close() error {
	if t.db == nil {
		return nil
	}
	return t.db.Close()
}

// OpenTables connects the record store selected by STORE_BACKEND.
func OpenTables(ctx context.Context, cfg config.Config) (*Tables, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendSheets:
		backend, err := tabular.NewSheetsBackend(ctx, cfg.Sheets)
		if err != nil {
			return nil, fmt.Errorf("open sheets store: %w", err)
		}
		return &Tables{Store: tabular.NewStore(backend)}, nil
	case config.StoreBackendPostgres:
		conn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return &Tables{Store: tabular.NewStore(tabular.NewPostgresBackend(conn)), db: conn}, nil
	case config.StoreBackendMemory:
		return &Tables{Store: tabular.NewStore(tabular.NewMemoryBackend())}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// OpenArchive builds the report archive selected by STORAGE_BACKEND and
// makes sure its bucket exists.
func OpenArchive(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	var (
		backend storage.ObjectStorage
		err     error
	)
	switch cfg.StorageBackend {
	case config.StorageBackendLocal:
		backend, err = storage.NewLocalClient(cfg.Local)
	case config.StorageBackendMinio:
		backend, err = storage.NewMinioClient(cfg.Minio)
	case config.StorageBackendGCS:
		backend, err = storage.NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}

	archive := storage.NewStorage(backend, cfg.StoragePrefix)
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	return archive, nil
}

// OpenMQ connects the broker selected by MQ_BACKEND. It returns nil when
// events are disabled.
func OpenMQ(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	var (
		backend mq.Backend
		err     error
	)
	switch cfg.MQBackend {
	case config.MQBackendNone, "":
		return nil, nil
	case config.MQBackendRabbitMQ:
		backend, err = mq.NewRabbitMQClient(cfg.RabbitMQ)
	case config.MQBackendPubSub:
		backend, err = mq.NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.MQBackend, err)
	}
	return mq.New(backend, cfg.MQChannel), nil
}
