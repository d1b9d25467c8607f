package repository

import (
	"context"

	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/AzielCF/watercooler-fc/infrastructure/valkey"
)

// ValkeyStore keeps entries as plain string keys under the client prefix.
type ValkeyStore struct {
	client *valkey.Client
}

var _ domainStorage.IStore = (*ValkeyStore)(nil)

func NewValkeyStore(client *valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.Inner().B().Get().Key(s.client.Key(key)).Build()
	val, err := s.client.Inner().Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key, value string) error {
	cmd := s.client.Inner().B().Set().Key(s.client.Key(key)).Value(value).Build()
	return s.client.Inner().Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	cmd := s.client.Inner().B().Del().Key(s.client.Key(key)).Build()
	return s.client.Inner().Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	match := s.client.Key(prefix) + "*"

	var cursor uint64
	for {
		scanCmd := s.client.Inner().B().Scan().Cursor(cursor).Match(match).Count(100).Build()
		result, err := s.client.Inner().Do(ctx, scanCmd).AsScanEntry()
		if err != nil {
			return nil, err
		}
		for _, k := range result.Elements {
			keys = append(keys, s.client.Unprefix(k))
		}
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}
