package audit

import (
	"database/sql"
	"strings"

	"github.com/jllopis/resolver/pkg/config"
	"github.com/jllopis/resolver/pkg/errors"
)

// Open builds the store selected by cfg. The returned close function
// releases the underlying database, if any.
func Open(cfg config.AuditConfig) (Store, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return NewMemoryStore(), noop, nil
	case "sqlite":
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, nil, errors.New(errors.CodeInvalidConfig, "audit dsn is required for sqlite", nil)
		}
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, nil, errors.New(errors.CodeStore, "opening audit database", err)
		}
		store, err := NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	default:
		return nil, nil, errors.New(errors.CodeInvalidConfig, "unknown audit driver", nil).
			WithContext("driver", cfg.Driver)
	}
}
