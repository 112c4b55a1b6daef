package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cardapio/internal/kvstore"

	"github.com/google/uuid"
)

// Storage namespaces, kept identical to the keys written by the mobile app.
const (
	PrefixUsers       = "@cardapio:usuarios"
	PrefixRestaurants = "@cardapio:restaurantes"
	PrefixProducts    = "@cardapio:produtos"
	PrefixSession     = "@cardapio:sessao"
)

var errRecordNotFound = errors.New("record not found")

// Entity is implemented by the pointer types of stored records.
type Entity interface {
	Identity() (id string, createdAt time.Time)
	SetIdentity(id string, createdAt time.Time)
}

type entityPtr[T any] interface {
	*T
	Entity
}

// newID returns a time-ordered id with a random tail (UUIDv7). There is no
// collision check.
var newID = func() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Collection stores records of one type under one adapter, one key per id.
// Queries are full scans filtered in memory.
type Collection[T any, PT entityPtr[T]] struct {
	store *kvstore.Adapter
	now   func() time.Time
}

func NewCollection[T any, PT entityPtr[T]](store *kvstore.Adapter) *Collection[T, PT] {
	return &Collection[T, PT]{store: store, now: time.Now}
}

// Insert assigns a fresh id and creation time to rec and persists it.
func (c *Collection[T, PT]) Insert(ctx context.Context, rec T) (*T, error) {
	PT(&rec).SetIdentity(newID(), c.now().UTC())
	id, _ := PT(&rec).Identity()
	if err := c.store.Save(ctx, id, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByID returns nil, nil when the id is absent.
func (c *Collection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	var rec T
	found, err := c.store.Get(ctx, id, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// List returns every record, newest first.
func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	keys, err := c.store.ListKeys(ctx, "")
	if err != nil {
		return nil, err
	}
	recs, err := kvstore.GetMultiple[T](ctx, c.store, keys)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			out = append(out, *r)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		_, ca := PT(&a).Identity()
		_, cb := PT(&b).Identity()
		return cb.Compare(ca)
	})
	return out, nil
}

// Filter lists the records for which keep returns true, newest first.
func (c *Collection[T, PT]) Filter(ctx context.Context, keep func(*T) bool) ([]T, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Update loads the record, lets apply mutate it and saves it back. The
// original id and creation time survive whatever apply does.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, apply func(*T)) (*T, error) {
	existing, err := c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errRecordNotFound
	}
	origID, origCreated := PT(existing).Identity()
	apply(existing)
	PT(existing).SetIdentity(origID, origCreated)

	if err := c.store.Save(ctx, id, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete reports false when there was nothing to delete.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := c.store.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := c.store.Remove(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", id, err)
	}
	return true, nil
}
