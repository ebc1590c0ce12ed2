// Package state implements the instance-state bag: a small key/value store
// that carries the displayed text across screen recreation.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/polzert/webdemo/internal/config"
)

// ResultsKey is the fixed key under which the display text is saved.
const ResultsKey = "results"

var ErrEmptyKey = errors.New("empty state key")

// Store saves and restores string values by key. Restore reports found ==
// false for keys that were never saved.
type Store interface {
	Save(ctx context.Context, key, value string) error
	Restore(ctx context.Context, key string) (value string, found bool, err error)
}

// NewStore builds the backend selected by cfg.
func NewStore(ctx context.Context, cfg *config.StateConfig) (Store, error) {
	if cfg == nil {
		cfg = config.DefaultStateConfig()
	}

	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(cfg.LRUSize)
	case config.BackendDynamoDB:
		client, err := NewDynamoClient(ctx, cfg.DynamoEndpoint)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		return NewDynamoStore(client, cfg.TableName), nil
	case config.BackendS3:
		client, err := NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		return NewS3Store(client, cfg.BucketName, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
