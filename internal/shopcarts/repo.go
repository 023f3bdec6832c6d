package shopcarts

import "context"

// Repository is the storage contract shared by the Postgres repo and the
// in-memory repo used in tests. Implementations generate identifiers
// themselves; callers never supply shopcart or item IDs on insert.
type Repository interface {
	InsertCart(ctx context.Context, customerID int64) (Shopcart, error)
	GetCart(ctx context.Context, shopcartID int64) (Shopcart, error)
	ListCarts(ctx context.Context) ([]Shopcart, error)
	FindCartsByCustomer(ctx context.Context, customerID int64) ([]Shopcart, error)
	// UpdateCart replaces customer_id on an existing cart.
	// Returns ErrNotFound if the cart does not exist.
	UpdateCart(ctx context.Context, shopcartID, customerID int64) (Shopcart, error)
	// DeleteCart removes the cart and all of its items. The bool reports
	// whether a cart was actually deleted; a missing cart is not an error.
	DeleteCart(ctx context.Context, shopcartID int64) (bool, error)

	// InsertItem stores a new item under it.ShopcartID.
	// Returns ErrNotFound if the parent cart is gone by commit time.
	InsertItem(ctx context.Context, it Item) (Item, error)
	GetItem(ctx context.Context, shopcartID, itemID int64) (Item, error)
	// ListItems returns the cart's items ordered by item_id.
	// Returns ErrNotFound if the cart itself does not exist.
	ListItems(ctx context.Context, shopcartID int64) ([]Item, error)
	UpdateItem(ctx context.Context, it Item) (Item, error)
	DeleteItem(ctx context.Context, shopcartID, itemID int64) (bool, error)
	// DeleteItemsIn removes every item under the cart, leaving the cart.
	DeleteItemsIn(ctx context.Context, shopcartID int64) error
}
