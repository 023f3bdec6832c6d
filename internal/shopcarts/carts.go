package shopcarts

import (
	"context"

	"github.com/rs/zerolog/log"
)

// CartService owns Shopcart records. All storage access goes through the
// Repository so the logic runs unchanged against Postgres or the in-memory
// repo.
type CartService struct {
	Repo Repository
}

func (s *CartService) Create(ctx context.Context, customerID int64) (Shopcart, error) {
	c, err := s.Repo.InsertCart(ctx, customerID)
	if err != nil {
		return Shopcart{}, err
	}
	log.Info().Int64("shopcart_id", c.ShopcartID).Int64("customer_id", c.CustomerID).Msg("cart created")
	return c, nil
}

func (s *CartService) Retrieve(ctx context.Context, shopcartID int64) (Shopcart, error) {
	return s.Repo.GetCart(ctx, shopcartID)
}

func (s *CartService) Update(ctx context.Context, shopcartID, customerID int64) (Shopcart, error) {
	return s.Repo.UpdateCart(ctx, shopcartID, customerID)
}

// Delete is idempotent: deleting an absent cart is a success. The bool
// reports whether anything was removed, so callers only publish an event
// when state actually changed.
func (s *CartService) Delete(ctx context.Context, shopcartID int64) (bool, error) {
	deleted, err := s.Repo.DeleteCart(ctx, shopcartID)
	if err != nil {
		return false, err
	}
	if deleted {
		log.Info().Int64("shopcart_id", shopcartID).Msg("cart deleted")
	}
	return deleted, nil
}

func (s *CartService) List(ctx context.Context) ([]Shopcart, error) {
	return s.Repo.ListCarts(ctx)
}

func (s *CartService) FindByCustomer(ctx context.Context, customerID int64) ([]Shopcart, error) {
	return s.Repo.FindCartsByCustomer(ctx, customerID)
}

// ClearItems empties the cart but leaves it in place. Unlike Delete, a
// missing cart is an error here: there is nothing to return to the caller.
func (s *CartService) ClearItems(ctx context.Context, shopcartID int64) (Shopcart, error) {
	c, err := s.Repo.GetCart(ctx, shopcartID)
	if err != nil {
		return Shopcart{}, err
	}
	if err := s.Repo.DeleteItemsIn(ctx, shopcartID); err != nil {
		return Shopcart{}, err
	}
	log.Info().Int64("shopcart_id", shopcartID).Msg("cart cleared")
	return c, nil
}
