package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/hami-market/storefront/internal/domain"
	"github.com/hami-market/storefront/internal/notify"
)

// Store persists the cart between sessions. Saves are best-effort:
// the engine logs a failed save and carries on, it never fails a
// mutation because of one.
type Store interface {
	SaveCart(ctx context.Context, items []domain.CartItem) error
	LoadCart(ctx context.Context) []domain.CartItem
}

// View receives refresh requests after mutations. Implementations
// read engine state and render; they must not mutate it.
type View interface {
	RenderCart(items []domain.CartItem, summary domain.Summary)
	UpdateBadge(count int)
}

// NopView ignores all refresh requests.
type NopView struct{}

func (NopView) RenderCart([]domain.CartItem, domain.Summary) {}
func (NopView) UpdateBadge(int)                              {}

// ErrInvalidProduct is returned when a product without an id is added.
var ErrInvalidProduct = errors.New("product has no id")

// Engine owns the cart state. All mutations go through its methods;
// collaborators only read state or request mutations.
type Engine struct {
	mu    sync.Mutex
	items []domain.CartItem

	store    Store
	notifier notify.Notifier
	view     View
}

func NewEngine(store Store, notifier notify.Notifier, view View) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if view == nil {
		view = NopView{}
	}
	return &Engine{
		store:    store,
		notifier: notifier,
		view:     view,
	}
}

// Load hydrates the cart from the store. A missing or discarded record
// leaves the cart empty.
func (e *Engine) Load(ctx context.Context) {
	items := e.store.LoadCart(ctx)

	e.mu.Lock()
	e.items = items
	e.mu.Unlock()

	e.view.UpdateBadge(e.ItemCount())
}

// AddItem puts a catalog snapshot into the cart. Adding a product that
// is already present increments its quantity instead of duplicating
// the line. A quantity below 1 is treated as 1.
func (e *Engine) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if product.ID == 0 {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	found := false
	for i := range e.items {
		if e.items[i].ProductID == product.ID {
			e.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		e.items = append(e.items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  quantity,
		})
	}
	e.mu.Unlock()

	e.persist(ctx)
	e.notifier.Success(fmt.Sprintf("%s added to cart", product.Name))
	e.view.UpdateBadge(e.ItemCount())
	return nil
}

// RemoveItem drops the line for the given product. Removing a product
// that is not in the cart is a no-op.
func (e *Engine) RemoveItem(ctx context.Context, productID int64) {
	e.mu.Lock()
	var removed *domain.CartItem
	for i := range e.items {
		if e.items[i].ProductID == productID {
			item := e.items[i]
			removed = &item
			e.items = append(e.items[:i], e.items[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	if removed == nil {
		return
	}

	e.persist(ctx)
	e.notifier.Info(fmt.Sprintf("%s removed from cart", removed.Name))
	e.refresh()
}

// SetQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line; an unknown product is a no-op.
func (e *Engine) SetQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(ctx, productID)
		return
	}

	e.mu.Lock()
	found := false
	for i := range e.items {
		if e.items[i].ProductID == productID {
			e.items[i].Quantity = quantity
			found = true
			break
		}
	}
	e.mu.Unlock()

	if !found {
		return
	}

	e.persist(ctx)
	e.refresh()
}

// Clear empties the cart. The store keeps a record with an empty item
// list rather than losing the record entirely.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	e.items = nil
	e.mu.Unlock()

	e.persist(ctx)
	e.notifier.Info("Cart cleared")
	e.refresh()
}

// Items returns an independent copy of the current line items.
func (e *Engine) Items() []domain.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.CartItem, len(e.items))
	copy(out, e.items)
	return out
}

// Summary prices the current cart contents. It has no side effects.
func (e *Engine) Summary() domain.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return summarize(e.items)
}

// InCart reports whether the product has a line in the cart.
func (e *Engine) InCart(productID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, item := range e.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// ItemCount returns the sum of quantities across all lines, not the
// number of lines.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

func (e *Engine) persist(ctx context.Context) {
	if err := e.store.SaveCart(ctx, e.Items()); err != nil {
		log.Printf("cart: save failed: %v", err)
	}
}

func (e *Engine) refresh() {
	e.view.RenderCart(e.Items(), e.Summary())
	e.view.UpdateBadge(e.ItemCount())
}
