// Package redisstore backs the snapshot slot store with Redis, one key
// per slot.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	ledger "github.com/pearltrails/engagement-ledger"
)

const keyPrefix = "ledger:"

// Config is the required properties to use Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Open connects to Redis and verifies the connection with a short ping.
func Open(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// SnapshotStore persists store snapshots as Redis string values.
type SnapshotStore struct {
	client *redis.Client
}

func NewSnapshotStore(client *redis.Client) ledger.SnapshotStore {
	return &SnapshotStore{
		client: client,
	}
}

func (s SnapshotStore) Load(ctx context.Context, slot string) ([]byte, error) {
	body, err := s.client.Get(ctx, keyPrefix+slot).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ledger.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("loading snapshot %q: %w", slot, err)
	}

	return body, nil
}

func (s SnapshotStore) Save(ctx context.Context, slot string, body []byte) error {
	if err := s.client.Set(ctx, keyPrefix+slot, body, 0).Err(); err != nil {
		return fmt.Errorf("saving snapshot %q: %w", slot, err)
	}

	return nil
}
