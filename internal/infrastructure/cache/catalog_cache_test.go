package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicedesk/client/internal/domain/catalog"
	"github.com/invoicedesk/client/internal/domain/shared"
	"github.com/invoicedesk/client/internal/domain/shared/valueobject"
)

type fakeLister struct {
	products []catalog.Product
	err      error
	calls    int
}

func (f *fakeLister) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]catalog.Product(nil), f.products...), nil
}

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Kopi Arabica", UnitPrice: valueobject.NewMoneyIDR(4500000)},
		{ID: 2, Name: "Kopi Robusta", UnitPrice: valueobject.NewMoneyIDR(3800000)},
		{ID: 3, Name: "Teh Melati", UnitPrice: valueobject.NewMoneyIDR(1200000)},
	}
}

func TestCatalogCache_Load(t *testing.T) {
	t.Run("loads once and serves search from memory", func(t *testing.T) {
		lister := &fakeLister{products: sampleProducts()}
		c := NewCatalogCache(lister)
		require.NoError(t, c.Load(context.Background()))
		assert.True(t, c.Loaded())

		// repeated searches never re-fetch
		for n := 0; n < 5; n++ {
			c.Search("kopi")
		}
		assert.Equal(t, 1, lister.calls)
	})

	t.Run("failure degrades search to empty and allows retry", func(t *testing.T) {
		lister := &fakeLister{err: errors.New("connection refused")}
		c := NewCatalogCache(lister)

		err := c.Load(context.Background())
		assert.ErrorIs(t, err, shared.ErrCatalogLoad)
		assert.False(t, c.Loaded())
		assert.Empty(t, c.Search("kopi"))

		lister.err = nil
		lister.products = sampleProducts()
		require.NoError(t, c.Load(context.Background()))
		assert.Len(t, c.Search("kopi"), 2)
	})

	t.Run("failed refresh keeps the previous catalog", func(t *testing.T) {
		lister := &fakeLister{products: sampleProducts()}
		c := NewCatalogCache(lister)
		require.NoError(t, c.Load(context.Background()))

		lister.err = errors.New("timeout")
		assert.Error(t, c.Load(context.Background()))
		assert.Len(t, c.Search("kopi"), 2)
	})
}

func TestCatalogCache_Search(t *testing.T) {
	lister := &fakeLister{products: sampleProducts()}
	c := NewCatalogCache(lister)
	require.NoError(t, c.Load(context.Background()))

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"case-insensitive substring", "kOpI", []int64{1, 2}},
		{"mid-word match", "bust", []int64{2}},
		{"no match", "gula", nil},
		{"empty query matches all", "", []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := c.Search(tt.query)
			var ids []int64
			for _, p := range results {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCatalogCache_ProductByID(t *testing.T) {
	lister := &fakeLister{products: sampleProducts()}
	c := NewCatalogCache(lister)
	require.NoError(t, c.Load(context.Background()))

	p, ok := c.ProductByID(2)
	require.True(t, ok)
	assert.Equal(t, "Kopi Robusta", p.Name)

	_, ok = c.ProductByID(99)
	assert.False(t, ok)

	assert.Equal(t, 3, c.Len())
}
