package shopcarts

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository. It backs unit tests and mirrors
// the Postgres behavior: auto-incremented IDs, cascade delete, and
// ErrNotFound on missing parents. Safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	carts      map[int64]Shopcart
	items      map[int64]Item
	nextCartID int64
	nextItemID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		carts:      make(map[int64]Shopcart),
		items:      make(map[int64]Item),
		nextCartID: 1,
		nextItemID: 1,
	}
}

func (r *MemoryRepo) InsertCart(_ context.Context, customerID int64) (Shopcart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Shopcart{ShopcartID: r.nextCartID, CustomerID: customerID}
	r.nextCartID++
	r.carts[c.ShopcartID] = c
	return c, nil
}

func (r *MemoryRepo) GetCart(_ context.Context, shopcartID int64) (Shopcart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[shopcartID]
	if !ok {
		return Shopcart{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) ListCarts(_ context.Context) ([]Shopcart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Shopcart{}
	for _, c := range r.carts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopcartID < out[j].ShopcartID })
	return out, nil
}

func (r *MemoryRepo) FindCartsByCustomer(_ context.Context, customerID int64) ([]Shopcart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Shopcart{}
	for _, c := range r.carts {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopcartID < out[j].ShopcartID })
	return out, nil
}

func (r *MemoryRepo) UpdateCart(_ context.Context, shopcartID, customerID int64) (Shopcart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[shopcartID]
	if !ok {
		return Shopcart{}, ErrNotFound
	}
	c.CustomerID = customerID
	r.carts[shopcartID] = c
	return c, nil
}

func (r *MemoryRepo) DeleteCart(_ context.Context, shopcartID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[shopcartID]; !ok {
		return false, nil
	}
	delete(r.carts, shopcartID)
	for id, it := range r.items {
		if it.ShopcartID == shopcartID {
			delete(r.items, id)
		}
	}
	return true, nil
}

func (r *MemoryRepo) InsertItem(_ context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[it.ShopcartID]; !ok {
		return Item{}, ErrNotFound
	}
	it.ItemID = r.nextItemID
	r.nextItemID++
	r.items[it.ItemID] = it
	return it, nil
}

func (r *MemoryRepo) GetItem(_ context.Context, shopcartID, itemID int64) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemID]
	if !ok || it.ShopcartID != shopcartID {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *MemoryRepo) ListItems(_ context.Context, shopcartID int64) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.carts[shopcartID]; !ok {
		return nil, ErrNotFound
	}
	out := []Item{}
	for _, it := range r.items {
		if it.ShopcartID == shopcartID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *MemoryRepo) UpdateItem(_ context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[it.ItemID]
	if !ok || cur.ShopcartID != it.ShopcartID {
		return Item{}, ErrNotFound
	}
	r.items[it.ItemID] = it
	return it, nil
}

func (r *MemoryRepo) DeleteItem(_ context.Context, shopcartID, itemID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[itemID]
	if !ok || it.ShopcartID != shopcartID {
		return false, nil
	}
	delete(r.items, itemID)
	return true, nil
}

func (r *MemoryRepo) DeleteItemsIn(_ context.Context, shopcartID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, it := range r.items {
		if it.ShopcartID == shopcartID {
			delete(r.items, id)
		}
	}
	return nil
}
