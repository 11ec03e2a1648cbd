package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngocanhle/pawshop/internal/domain"
)

func TestStore_AddItem_MergesQuantities(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	item := domain.CartItem{
		ProductID:   1,
		ProductName: "Royal Canin Puppy",
		SizeID:      10,
		Size:        "2kg",
		UnitPrice:   250000,
		Quantity:    1,
	}

	_, err := s.AddItem(ctx, "tok", item)
	require.NoError(t, err)

	items, err := s.AddItem(ctx, "tok", item)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int32(2), items[0].Quantity)
	assert.Equal(t, int64(500000), items[0].LineTotal())
}

func TestStore_AddItem_DifferentSizesStaySeparate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "tok", domain.CartItem{ProductID: 1, SizeID: 10, UnitPrice: 250000, Quantity: 1})
	require.NoError(t, err)

	items, err := s.AddItem(ctx, "tok", domain.CartItem{ProductID: 1, SizeID: 11, UnitPrice: 450000, Quantity: 1})
	require.NoError(t, err)

	assert.Len(t, items, 2)
}

func TestStore_AddItem_Validation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "", domain.CartItem{SizeID: 10, Quantity: 1})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = s.AddItem(ctx, "tok", domain.CartItem{SizeID: 10, Quantity: 0})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestStore_GetItems_MissingCartIsEmpty(t *testing.T) {
	s := NewStore()

	items, err := s.GetItems(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestStore_GetItems_ReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "tok", domain.CartItem{SizeID: 10, UnitPrice: 100, Quantity: 1})
	require.NoError(t, err)

	items, err := s.GetItems(ctx, "tok")
	require.NoError(t, err)
	items[0].Quantity = 99

	again, err := s.GetItems(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, int32(1), again[0].Quantity)
}

func TestStore_RemoveItem(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "tok", domain.CartItem{SizeID: 10, Quantity: 1})
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "tok", domain.CartItem{SizeID: 11, Quantity: 2})
	require.NoError(t, err)

	items, err := s.RemoveItem(ctx, "tok", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(11), items[0].SizeID)

	// Removing a line that is not there is a no-op.
	items, err = s.RemoveItem(ctx, "tok", 999)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "tok", domain.CartItem{SizeID: 10, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, "tok"))

	items, err := s.GetItems(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddItem(ctx, "tok", domain.CartItem{SizeID: 10, UnitPrice: 1000, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.GetItems(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(50), items[0].Quantity)
}
