package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hami-market/storefront/internal/domain"
)

type mockStore struct {
	m      sync.Mutex
	saved  [][]domain.CartItem
	loaded []domain.CartItem
	err    error
}

func (m *mockStore) SaveCart(_ context.Context, items []domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saved = append(m.saved, items)
	return m.err
}

func (m *mockStore) LoadCart(context.Context) []domain.CartItem {
	m.m.Lock()
	defer m.m.Unlock()
	return m.loaded
}

func (m *mockStore) lastSave() []domain.CartItem {
	m.m.Lock()
	defer m.m.Unlock()
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

type mockNotifier struct {
	messages []string
	levels   []string
}

func (m *mockNotifier) record(msg, level string) {
	m.messages = append(m.messages, msg)
	m.levels = append(m.levels, level)
}

func (m *mockNotifier) Success(msg string) { m.record(msg, "success") }
func (m *mockNotifier) Error(msg string)   { m.record(msg, "error") }
func (m *mockNotifier) Info(msg string)    { m.record(msg, "info") }

type mockView struct {
	renders int
	badges  []int
}

func (m *mockView) RenderCart([]domain.CartItem, domain.Summary) { m.renders++ }
func (m *mockView) UpdateBadge(count int)                        { m.badges = append(m.badges, count) }

var (
	apples  = domain.Product{ID: 1, Name: "Fresh Red Apples", Category: "fruits", Price: 2.99, Image: "images/products/apples.jpg"}
	carrots = domain.Product{ID: 3, Name: "Fresh Carrots", Category: "vegetables", Price: 1.49, Image: "images/products/carrots.jpg"}
)

func TestAddItem_DistinctProducts(t *testing.T) {
	store := &mockStore{}
	engine := NewEngine(store, nil, nil)
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, apples, 3))
	require.NoError(t, engine.AddItem(ctx, carrots, 2))

	assert.Equal(t, 5, engine.ItemCount())
	items := engine.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Fresh Red Apples", items[0].Name)
	assert.Equal(t, 2.99, items[0].Price)
}

func TestAddItem_SameProductIncrements(t *testing.T) {
	engine := NewEngine(&mockStore{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, apples, 1))
	require.NoError(t, engine.AddItem(ctx, apples, 2))
	require.NoError(t, engine.AddItem(ctx, apples, 1))

	items := engine.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 4, engine.ItemCount())
}

func TestAddItem_QuantityBelowOneDefaultsToOne(t *testing.T) {
	engine := NewEngine(&mockStore{}, nil, nil)

	require.NoError(t, engine.AddItem(context.Background(), apples, 0))

	assert.Equal(t, 1, engine.ItemCount())
}

func TestAddItem_MissingProductID(t *testing.T) {
	store := &mockStore{}
	engine := NewEngine(store, nil, nil)

	err := engine.AddItem(context.Background(), domain.Product{Name: "ghost"}, 1)

	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Empty(t, engine.Items())
	assert.Empty(t, store.saved, "a rejected add must not persist anything")
}

func TestAddItem_SideEffects(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	view := &mockView{}
	engine := NewEngine(store, notifier, view)

	require.NoError(t, engine.AddItem(context.Background(), apples, 2))

	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{"Fresh Red Apples added to cart"}, notifier.messages)
	assert.Equal(t, []string{"success"}, notifier.levels)
	assert.Equal(t, []int{2}, view.badges)
}

func TestRemoveItem_RemovesAndNotifies(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	engine := NewEngine(store, notifier, nil)
	ctx := context.Background()
	require.NoError(t, engine.AddItem(ctx, apples, 1))
	require.NoError(t, engine.AddItem(ctx, carrots, 1))

	engine.RemoveItem(ctx, apples.ID)

	items := engine.Items()
	require.Len(t, items, 1)
	assert.Equal(t, carrots.ID, items[0].ProductID)
	assert.Contains(t, notifier.messages, "Fresh Red Apples removed from cart")
	assert.Equal(t, "info", notifier.levels[len(notifier.levels)-1])
}

func TestRemoveItem_AbsentProductIsNoop(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	engine := NewEngine(store, notifier, nil)
	require.NoError(t, engine.AddItem(context.Background(), apples, 1))
	savesBefore := len(store.saved)

	engine.RemoveItem(context.Background(), 999)

	assert.Len(t, store.saved, savesBefore, "a no-op remove must not persist")
	assert.Len(t, notifier.messages, 1, "no notification for an item that was not found")
	assert.Equal(t, 1, engine.ItemCount())
}

func TestSetQuantity_Replaces(t *testing.T) {
	engine := NewEngine(&mockStore{}, nil, nil)
	ctx := context.Background()
	require.NoError(t, engine.AddItem(ctx, apples, 5))

	engine.SetQuantity(ctx, apples.ID, 2)

	items := engine.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestSetQuantity_ZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()

	viaSet := NewEngine(&mockStore{}, nil, nil)
	require.NoError(t, viaSet.AddItem(ctx, apples, 2))
	require.NoError(t, viaSet.AddItem(ctx, carrots, 1))
	viaSet.SetQuantity(ctx, apples.ID, 0)

	viaRemove := NewEngine(&mockStore{}, nil, nil)
	require.NoError(t, viaRemove.AddItem(ctx, apples, 2))
	require.NoError(t, viaRemove.AddItem(ctx, carrots, 1))
	viaRemove.RemoveItem(ctx, apples.ID)

	assert.Equal(t, viaRemove.Items(), viaSet.Items())
}

func TestSetQuantity_UnknownProductIsNoop(t *testing.T) {
	store := &mockStore{}
	engine := NewEngine(store, nil, nil)
	require.NoError(t, engine.AddItem(context.Background(), apples, 1))
	savesBefore := len(store.saved)

	engine.SetQuantity(context.Background(), 999, 7)

	assert.Len(t, store.saved, savesBefore)
	assert.Equal(t, 1, engine.ItemCount())
}

func TestClear_PersistsEmptyList(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	engine := NewEngine(store, notifier, nil)
	ctx := context.Background()
	require.NoError(t, engine.AddItem(ctx, apples, 3))

	engine.Clear(ctx)

	assert.Empty(t, engine.Items())
	assert.Empty(t, store.lastSave(), "clear writes an empty list, it does not skip the save")
	assert.Contains(t, notifier.messages, "Cart cleared")
}

func TestItems_ReturnsIndependentCopy(t *testing.T) {
	engine := NewEngine(&mockStore{}, nil, nil)
	require.NoError(t, engine.AddItem(context.Background(), apples, 1))

	items := engine.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, engine.Items()[0].Quantity)
}

func TestInCart(t *testing.T) {
	engine := NewEngine(&mockStore{}, nil, nil)
	require.NoError(t, engine.AddItem(context.Background(), apples, 1))

	assert.True(t, engine.InCart(apples.ID))
	assert.False(t, engine.InCart(carrots.ID))
}

func TestLoad_HydratesFromStore(t *testing.T) {
	store := &mockStore{loaded: []domain.CartItem{
		{ProductID: 1, Name: "Fresh Red Apples", Price: 2.99, Quantity: 2},
	}}
	view := &mockView{}
	engine := NewEngine(store, nil, view)

	engine.Load(context.Background())

	assert.Equal(t, 2, engine.ItemCount())
	assert.Equal(t, []int{2}, view.badges)
}

func TestLoad_EmptyStoreLeavesCartEmpty(t *testing.T) {
	engine := NewEngine(&mockStore{}, nil, nil)

	engine.Load(context.Background())

	assert.Empty(t, engine.Items())
	assert.Equal(t, 0, engine.ItemCount())
}

func TestMutations_SucceedWhenSaveFails(t *testing.T) {
	store := &mockStore{err: assert.AnError}
	engine := NewEngine(store, nil, nil)
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, apples, 1))
	engine.SetQuantity(ctx, apples.ID, 3)
	engine.Clear(ctx)

	assert.Empty(t, engine.Items())
}
