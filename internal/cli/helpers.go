package cli

import (
	"os"

	"github.com/craftbase/projtrack/internal/config"
	"github.com/craftbase/projtrack/internal/store"
)

// openStore opens the SQLite store under the data directory and runs
// the schema migration.
func openStore(cfg *config.Config) (store.Store, error) {
	if err := os.MkdirAll(cfg.App.DataDir, 0755); err != nil {
		return nil, err
	}

	db, err := store.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	s := store.NewStore(db)
	if err := s.InitialMigration(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
