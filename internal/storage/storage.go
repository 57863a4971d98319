// Package storage keeps the latest candidate-matching payload that the chat assistant answers from.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spigell/talentpulse/internal/config"
)

// ErrNotFound is returned by Latest when nothing has been saved yet.
var ErrNotFound = errors.New("no candidate data stored")

// Record is the raw JSON document of a candidate-matching request.
type Record = json.RawMessage

type Store interface {
	Save(ctx context.Context, rec Record) error
	Latest(ctx context.Context) (Record, error)
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", config.StorageFile:
		return NewFileStore(cfg.Path), nil
	case config.StorageSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.StoragePostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func validRecord(rec Record) error {
	if len(rec) == 0 || !json.Valid(rec) {
		return errors.New("record is not valid JSON")
	}
	return nil
}
