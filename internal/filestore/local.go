package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type localConfig struct {
	Dir string `json:"dir"`
}

type localStore struct {
	dir string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(args interface{}) (Store, error) {
	cfg := &localConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local store dir is required")
	}
	return &localStore{dir: cfg.Dir}, nil
}

func (s *localStore) Put(ctx context.Context, data []byte) (string, error) {
	_ = ctx
	key, pointer := PointerFor(data)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, key)
	if _, err := os.Stat(path); err == nil {
		return pointer, nil
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return pointer, nil
}

func (s *localStore) Open(ctx context.Context, pointer string) ([]byte, error) {
	_ = ctx
	key, err := keyFromPointer(pointer)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, key))
}
