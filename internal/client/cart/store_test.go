package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-storefront/internal/client/api"
)

func setupCart(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var tee = api.Product{ID: 1, Title: "Plain Tee", Price: 19.90}
var hoodie = api.Product{ID: 2, Title: "Hoodie", Price: 49.90}

func TestCartAddIncrementsExistingLine(t *testing.T) {
	s := setupCart(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, tee, "M"))
	require.NoError(t, s.Add(ctx, tee, "L"))
	require.NoError(t, s.Add(ctx, hoodie, ""))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "same product must not create a second line")
	require.Equal(t, int64(2), items[0].Quantity)
	require.Equal(t, "L", items[0].Size, "latest size choice wins")
	require.Equal(t, int64(1), items[1].Quantity)

	total, err := s.Total(ctx)
	require.NoError(t, err)
	require.InDelta(t, 2*19.90+49.90, total, 0.001)
}

func TestCartUpdateQuantity(t *testing.T) {
	s := setupCart(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, tee, ""))
	require.NoError(t, s.UpdateQuantity(ctx, tee.ID, 5))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), items[0].Quantity)

	total, err := s.Total(ctx)
	require.NoError(t, err)
	require.InDelta(t, 5*19.90, total, 0.001)
}

func TestCartQuantityZeroRemovesLine(t *testing.T) {
	s := setupCart(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, tee, ""))
	require.NoError(t, s.UpdateQuantity(ctx, tee.ID, 0))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, s.UpdateQuantity(ctx, tee.ID, -3))
}

func TestCartRemoveAndClear(t *testing.T) {
	s := setupCart(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, tee, ""))
	require.NoError(t, s.Add(ctx, hoodie, ""))

	require.NoError(t, s.Remove(ctx, tee.ID))
	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// removing an absent line is a no-op
	require.NoError(t, s.Remove(ctx, 999))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	items, err = s.Items(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	total, err := s.Total(ctx)
	require.NoError(t, err)
	require.Zero(t, total, "empty cart totals zero, not NULL")
}
