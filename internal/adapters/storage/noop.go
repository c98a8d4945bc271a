package storage

import (
	"context"
	"errors"
)

// NoOpStorage discards reports; used when archiving is disabled.
type NoOpStorage struct{}

func NewNoOpStorage() *NoOpStorage {
	return &NoOpStorage{}
}

func (NoOpStorage) Store(ctx context.Context, key string, data []byte) (string, error) {
	return "", nil
}

func (NoOpStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("report archive is disabled")
}

func (NoOpStorage) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}
