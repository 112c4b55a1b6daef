package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrSave     = errors.New("failed to save data")
	ErrRetrieve = errors.New("failed to retrieve data")
	ErrRemove   = errors.New("failed to remove data")
	ErrListKeys = errors.New("failed to list keys")
	ErrClear    = errors.New("failed to clear data")
)

// Backend is the raw persistent substrate. Keys handed to a Backend are
// already namespaced; values are opaque text.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys returns every stored key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// MultiGet returns the values found; absent keys are missing from the map.
	MultiGet(ctx context.Context, keys []string) (map[string]string, error)
	MultiSet(ctx context.Context, items []Item) error
	MultiDelete(ctx context.Context, keys []string) error
	Ping(ctx context.Context) error
}

// Item is a key/value pair for batched writes.
type Item struct {
	Key   string
	Value string
}

// Entry is a key/value pair handed to Adapter.SaveMultiple before encoding.
type Entry struct {
	Key   string
	Value any
}

// Adapter scopes a Backend to one namespace ("<prefix>:<key>") and encodes
// values as JSON.
type Adapter struct {
	backend Backend
	prefix  string
	log     *zap.SugaredLogger
}

// NewAdapter creates an Adapter rooted at prefix.
func NewAdapter(backend Backend, prefix string, log *zap.SugaredLogger) *Adapter {
	return &Adapter{backend: backend, prefix: prefix, log: log}
}

func (a *Adapter) fullKey(key string) string {
	return a.prefix + ":" + key
}

// Save encodes value and stores it under key.
func (a *Adapter) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := a.backend.Set(ctx, a.fullKey(key), string(raw)); err != nil {
		a.log.Errorw("kv save failed", "key", a.fullKey(key), "error", err)
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Get decodes the value stored under key into dst. A missing key or a value
// that does not decode reports false with a nil error.
func (a *Adapter) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := a.backend.Get(ctx, a.fullKey(key))
	if err != nil {
		a.log.Errorw("kv get failed", "key", a.fullKey(key), "error", err)
		return false, fmt.Errorf("%w: %w", ErrRetrieve, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.log.Warnw("kv value could not be decoded", "key", a.fullKey(key), "error", err)
		return false, nil
	}
	return true, nil
}

// Exists reports whether key holds a value.
func (a *Adapter) Exists(ctx context.Context, key string) (bool, error) {
	_, found, err := a.backend.Get(ctx, a.fullKey(key))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRetrieve, err)
	}
	return found, nil
}

// Remove deletes key. Removing an absent key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.backend.Delete(ctx, a.fullKey(key)); err != nil {
		a.log.Errorw("kv remove failed", "key", a.fullKey(key), "error", err)
		return fmt.Errorf("%w: %w", ErrRemove, err)
	}
	return nil
}

// ListKeys returns the keys under the namespace, optionally narrowed by sub,
// with the namespace stripped.
func (a *Adapter) ListKeys(ctx context.Context, sub string) ([]string, error) {
	ns := a.prefix + ":"
	keys, err := a.backend.Keys(ctx, ns+sub)
	if err != nil {
		a.log.Errorw("kv list keys failed", "prefix", ns+sub, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrListKeys, err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, ns))
	}
	return out, nil
}

// SaveMultiple encodes and stores all entries in one backend call.
func (a *Adapter) SaveMultiple(ctx context.Context, entries []Entry) error {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
		items = append(items, Item{Key: a.fullKey(e.Key), Value: string(raw)})
	}
	if len(items) == 0 {
		return nil
	}
	if err := a.backend.MultiSet(ctx, items); err != nil {
		a.log.Errorw("kv multi save failed", "count", len(items), "error", err)
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Clear removes every key in the namespace.
func (a *Adapter) Clear(ctx context.Context) error {
	keys, err := a.backend.Keys(ctx, a.prefix+":")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClear, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := a.backend.MultiDelete(ctx, keys); err != nil {
		a.log.Errorw("kv clear failed", "prefix", a.prefix, "error", err)
		return fmt.Errorf("%w: %w", ErrClear, err)
	}
	return nil
}

// GetMultiple fetches keys in one backend call. The result has one slot per
// key; missing or undecodable values are nil.
func GetMultiple[T any](ctx context.Context, a *Adapter, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = a.fullKey(k)
	}
	values, err := a.backend.MultiGet(ctx, full)
	if err != nil {
		a.log.Errorw("kv multi get failed", "count", len(keys), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrieve, err)
	}
	out := make([]*T, len(keys))
	for i, k := range full {
		raw, ok := values[k]
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			a.log.Warnw("kv value could not be decoded", "key", k, "error", err)
			continue
		}
		out[i] = &v
	}
	return out, nil
}
