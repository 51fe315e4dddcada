package stores

import (
	"jnbvisualizer/config"
	"jnbvisualizer/core"
	"jnbvisualizer/stores/memory"
	"jnbvisualizer/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// Store is the persistence surface the rest of the service depends on.
type Store interface {
	core.ProofStore
}

// New selects the proof store from configuration. SQLite is the default;
// the in-memory store exists for tests and throwaway runs.
func New(cfg *config.Config) Store {
	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	var store Store
	switch cfg.StorageType {
	case "memory":
		store = memory.NewStore()
	default:
		storageField["dataSourceName"] = cfg.DBPath
		store = sqlite.NewStore(cfg.DBPath)
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
