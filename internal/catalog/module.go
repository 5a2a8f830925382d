// Package catalog provides read access to the clients and articles that quotes reference.
// Client and article maintenance live outside this service; this module only looks rows up.
package catalog

import (
	"time"

	"presupuestos_backend/internal/catalog/repository"
	"presupuestos_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module wires the catalog reader, optionally fronted by redis.
type Module struct {
	reader repository.Reader
}

// NewModule creates the catalog module. rdb may be nil, in which case every
// lookup goes to the database.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, ttl time.Duration, log *logger.Logger, metrics repository.LookupRecorder) *Module {
	var reader repository.Reader = repository.New(pool)
	if rdb != nil {
		reader = repository.NewCachedReader(reader, rdb, ttl, log, metrics)
		log.Info("catalog article cache enabled", "ttl", ttl.String())
	}
	return &Module{reader: reader}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Reader returns the lookup surface used by the quotes module.
func (m *Module) Reader() repository.Reader {
	return m.reader
}
