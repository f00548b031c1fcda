package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
	"pedidos/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func product(id int64, price int64) model.Product {
	return model.Product{ID: id, Name: "p", Price: decimal.NewFromInt(price), Stock: 100}
}

func sumLines(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}

func TestCartStore_AddMergesById(t *testing.T) {
	ctx := context.Background()
	cart := usecase.NewCartStore(newMemoryCart())

	for i := 0; i < 5; i++ {
		require.NoError(t, cart.Add(ctx, product(1, 10), 2))
	}
	require.NoError(t, cart.Add(ctx, product(2, 3), 1))

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(10), lines[0].Quantity)
	assert.Equal(t, int64(1), lines[1].Quantity)
	assert.Equal(t, int64(11), cart.ItemCount())
}

func TestCartStore_Scenario_AddToExistingLine(t *testing.T) {
	ctx := context.Background()
	cart := usecase.NewCartStore(newMemoryCart())

	require.NoError(t, cart.Add(ctx, product(1, 10), 2))
	require.NoError(t, cart.Add(ctx, product(1, 10), 3))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, int64(5), lines[0].Quantity)
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(50)))
}

func TestCartStore_SetQuantityZeroOrLessRemoves(t *testing.T) {
	ctx := context.Background()

	for _, q := range []int64{0, -1, -10} {
		cart := usecase.NewCartStore(newMemoryCart())
		require.NoError(t, cart.Add(ctx, product(1, 10), 2))
		require.NoError(t, cart.Add(ctx, product(2, 5), 1))

		require.NoError(t, cart.SetQuantity(ctx, 1, q))

		lines := cart.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(2), lines[0].ProductID)
	}
}

func TestCartStore_TotalAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	cart := usecase.NewCartStore(newMemoryCart())

	steps := []func() error{
		func() error { return cart.Add(ctx, product(1, 10), 2) },
		func() error { return cart.Add(ctx, model.Product{ID: 2, Price: decimal.RequireFromString("2.35")}, 3) },
		func() error { return cart.SetQuantity(ctx, 1, 7) },
		func() error { return cart.Add(ctx, product(3, 1), 1) },
		func() error { return cart.Remove(ctx, 2) },
		func() error { return cart.SetQuantity(ctx, 3, 0) },
		func() error { return cart.Clear(ctx) },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assert.True(t, cart.Total().Equal(sumLines(cart.Lines())), "step %d", i)
	}
	assert.True(t, cart.Total().IsZero())
	assert.Empty(t, cart.Lines())
}

func TestCartStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	cart := usecase.NewCartStore(newMemoryCart())

	assert.ErrorIs(t, cart.Add(ctx, product(1, 10), 0), usecase.ErrInvalidQuantity)
	assert.ErrorIs(t, cart.SetQuantity(ctx, 9, 1), usecase.ErrLineNotFound)
	assert.Empty(t, cart.Lines())
}

func TestCartStore_RemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	cart := usecase.NewCartStore(newMemoryCart())
	require.NoError(t, cart.Add(ctx, product(1, 10), 2))

	require.NoError(t, cart.Remove(ctx, 9))
	require.NoError(t, cart.Remove(ctx, 1))
	require.NoError(t, cart.Remove(ctx, 1))
	assert.Empty(t, cart.Lines())
}

func TestCartStore_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryCart()

	cart := usecase.NewCartStore(storage)
	require.NoError(t, cart.Add(ctx, product(1, 10), 2))
	require.NoError(t, cart.Add(ctx, product(2, 4), 1))

	restored := usecase.NewCartStore(storage)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, cart.Lines(), restored.Lines())
	assert.True(t, restored.Total().Equal(decimal.NewFromInt(24)))
}

func TestCartStore_RestoreNormalizes(t *testing.T) {
	ctx := context.Background()
	carts := new(CartRepoMock)
	carts.On("Load", mock.Anything).Return([]model.CartLine{
		{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		{ProductID: 2, UnitPrice: decimal.NewFromInt(5), Quantity: 0},
	}, nil)

	cart := usecase.NewCartStore(carts)
	require.NoError(t, cart.Restore(ctx))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

func TestCartStore_SaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	carts := new(CartRepoMock)
	carts.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	cart := usecase.NewCartStore(carts)
	err := cart.Add(ctx, product(1, 10), 1)
	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, cart.Lines(), 1)
}

func TestCartStore_LinesIsCopy(t *testing.T) {
	ctx := context.Background()
	cart := usecase.NewCartStore(newMemoryCart())
	require.NoError(t, cart.Add(ctx, product(1, 10), 1))

	lines := cart.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, int64(1), cart.Lines()[0].Quantity)
}

func TestCartStore_Restore_CorruptStartsEmpty(t *testing.T) {
	ctx := context.Background()
	carts := new(CartRepoMock)
	carts.On("Load", mock.Anything).Return(nil, repo.ErrCorruptRecord).Once()
	carts.On("Save", mock.Anything, []model.CartLine{}).Return(nil).Once()

	cart := usecase.NewCartStore(carts)
	require.NoError(t, cart.Restore(ctx))
	assert.Empty(t, cart.Lines())
	assert.True(t, cart.Total().IsZero())
	carts.AssertExpectations(t)
}

func TestCartStore_Restore_StorageErrorReturned(t *testing.T) {
	carts := new(CartRepoMock)
	carts.On("Load", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	cart := usecase.NewCartStore(carts)
	assert.Error(t, cart.Restore(context.Background()))
}
