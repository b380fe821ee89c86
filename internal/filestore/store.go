package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/casetrail/casetrail/internal/config"
)

const pointerScheme = "cas://"

// Store is a content-addressed blob store: the pointer returned by Put is
// derived from the bytes themselves, so identical content always maps to
// the same pointer and writes are idempotent.
type Store interface {
	Put(ctx context.Context, data []byte) (string, error)
	Open(ctx context.Context, pointer string) ([]byte, error)
}

// PointerFor returns the storage key and the caller-facing pointer for a
// blob without storing it.
func PointerFor(data []byte) (key string, pointer string) {
	sum := sha256.Sum256(data)
	key = hex.EncodeToString(sum[:])
	return key, pointerScheme + key
}

func keyFromPointer(pointer string) (string, error) {
	if !strings.HasPrefix(pointer, pointerScheme) {
		return "", fmt.Errorf("invalid blob pointer: %s", pointer)
	}
	key := strings.TrimPrefix(pointer, pointerScheme)
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("invalid blob pointer: %s", pointer)
	}
	return key, nil
}

type Factory func(args interface{}) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.FileStoreConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported file store type: %s", cfg.Type)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode store config: %w", err)
	}
	return nil
}
