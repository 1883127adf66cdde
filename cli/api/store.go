package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/oaiiae/huma-contacts/datastores"
)

type StoreOptions struct {
	StoreDriver string `doc:"contacts store, inmem or sqlite"             default:"inmem"`
	StorePath   string `doc:"sqlite database file"                        default:"contacts.db"`
	StoreSeed   string `doc:"YAML file of contacts loaded at startup"`
}

// NewStore opens the contacts store described by options and loads its seed.
// The returned close function releases the store.
func NewStore(ctx context.Context, options *StoreOptions, logger *slog.Logger) (datastores.ContactsStore, func() error, error) {
	var (
		store datastores.ContactsStore
		closer = func() error { return nil }
	)
	switch options.StoreDriver {
	case "", "inmem":
		store = datastores.NewContactsInmem()
	case "sqlite":
		sqlite, err := datastores.OpenContactsSQLite(options.StorePath)
		if err != nil {
			return nil, nil, err
		}
		store, closer = sqlite, sqlite.Close
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", options.StoreDriver)
	}

	if options.StoreSeed != "" {
		n, err := seed(ctx, store, options.StoreSeed)
		if err != nil {
			closer() //nolint: errcheck
			return nil, nil, err
		}
		logger.Info("store seeded", "file", options.StoreSeed, "contacts", n)
	}

	logger.Debug("store opened", "driver", options.StoreDriver, "path", options.StorePath)
	return store, closer, nil
}

func seed(ctx context.Context, store datastores.ContactsStore, name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	contacts, err := datastores.LoadSeed(f)
	if err != nil {
		return 0, err
	}
	return len(contacts), datastores.Seed(ctx, store, contacts...)
}
