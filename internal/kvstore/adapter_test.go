package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dish struct {
	Name  string  `json:"nome"`
	Price float64 `json:"preco"`
}

// failingBackend rejects every call.
type failingBackend struct{}

var errDisk = errors.New("disk full")

func (failingBackend) Get(context.Context, string) (string, bool, error) { return "", false, errDisk }
func (failingBackend) Set(context.Context, string, string) error         { return errDisk }
func (failingBackend) Delete(context.Context, string) error              { return errDisk }
func (failingBackend) Keys(context.Context, string) ([]string, error)    { return nil, errDisk }
func (failingBackend) MultiGet(context.Context, []string) (map[string]string, error) {
	return nil, errDisk
}
func (failingBackend) MultiSet(context.Context, []Item) error      { return errDisk }
func (failingBackend) MultiDelete(context.Context, []string) error { return errDisk }
func (failingBackend) Ping(context.Context) error                  { return errDisk }

func newTestAdapter(b Backend, prefix string) *Adapter {
	return NewAdapter(b, prefix, zap.NewNop().Sugar())
}

func TestAdapter_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	a := newTestAdapter(backend, "@cardapio:produtos")

	require.NoError(t, a.Save(ctx, "p1", dish{Name: "Feijoada", Price: 42.5}))

	raw, found, err := backend.Get(ctx, "@cardapio:produtos:p1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"nome":"Feijoada","preco":42.5}`, raw)

	var got dish
	found, err = a.Get(ctx, "p1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, dish{Name: "Feijoada", Price: 42.5}, got)
}

func TestAdapter_GetMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	a := newTestAdapter(backend, "@cardapio:produtos")

	var got dish
	found, err := a.Get(ctx, "nope", &got)
	assert.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, backend.Set(ctx, "@cardapio:produtos:bad", "{not json"))
	found, err = a.Get(ctx, "bad", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestAdapter_ListKeysIsNamespaced(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	products := newTestAdapter(backend, "@cardapio:produtos")
	restaurants := newTestAdapter(backend, "@cardapio:restaurantes")

	require.NoError(t, products.Save(ctx, "b", dish{Name: "b"}))
	require.NoError(t, products.Save(ctx, "a", dish{Name: "a"}))
	require.NoError(t, restaurants.Save(ctx, "r1", dish{Name: "r"}))
	require.NoError(t, backend.Set(ctx, "@cardapio:produtosX:z", "{}"))

	keys, err := products.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	keys, err = products.ListKeys(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestAdapter_RemoveAndExists(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(NewMemoryBackend(), "@cardapio:usuarios")

	require.NoError(t, a.Save(ctx, "u1", dish{Name: "x"}))
	ok, err := a.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, a.Remove(ctx, "u1"))
	ok, err = a.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing twice is fine
	assert.NoError(t, a.Remove(ctx, "u1"))
}

func TestAdapter_MultipleAndClear(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	a := newTestAdapter(backend, "@cardapio:produtos")
	other := newTestAdapter(backend, "@cardapio:sessao")

	require.NoError(t, a.SaveMultiple(ctx, []Entry{
		{Key: "p1", Value: dish{Name: "Pastel", Price: 8}},
		{Key: "p2", Value: dish{Name: "Coxinha", Price: 6}},
	}))
	require.NoError(t, backend.Set(ctx, "@cardapio:produtos:p3", "garbage"))
	require.NoError(t, other.Save(ctx, "current", dish{Name: "keep"}))

	got, err := GetMultiple[dish](ctx, a, []string{"p1", "missing", "p2", "p3"})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Pastel", got[0].Name)
	assert.Nil(t, got[1])
	assert.Equal(t, "Coxinha", got[2].Name)
	assert.Nil(t, got[3])

	require.NoError(t, a.Clear(ctx))
	keys, err := a.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	ok, err := other.Exists(ctx, "current")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdapter_BackendFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(failingBackend{}, "@cardapio:produtos")

	err := a.Save(ctx, "p1", dish{})
	assert.ErrorIs(t, err, ErrSave)
	assert.ErrorIs(t, err, errDisk)

	var d dish
	_, err = a.Get(ctx, "p1", &d)
	assert.ErrorIs(t, err, ErrRetrieve)

	assert.ErrorIs(t, a.Remove(ctx, "p1"), ErrRemove)

	_, err = a.ListKeys(ctx, "")
	assert.ErrorIs(t, err, ErrListKeys)

	assert.ErrorIs(t, a.Clear(ctx), ErrClear)

	_, err = GetMultiple[dish](ctx, a, []string{"p1"})
	assert.ErrorIs(t, err, ErrRetrieve)

	assert.ErrorIs(t, a.SaveMultiple(ctx, []Entry{{Key: "p1", Value: dish{}}}), ErrSave)
}
