package shopcarts

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ItemInput carries the create-path fields after JSON decoding. Exactly one
// of UnitPrice or Price must be set: Price is the legacy pre-multiplied line
// total some clients still send, and is divided back down by quantity.
type ItemInput struct {
	ProductID int64
	Quantity  int
	UnitPrice *decimal.Decimal
	Price     *decimal.Decimal
}

// ItemUpdate carries the partial-update fields. Nil means "leave as is".
type ItemUpdate struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
}

// ItemService owns Item records scoped to a parent Shopcart. The stored
// price is always quantity * unit_price, computed here and never trusted
// from the client.
type ItemService struct {
	Repo Repository
}

func (s *ItemService) Create(ctx context.Context, shopcartID int64, in ItemInput) (Item, error) {
	if in.Quantity < 1 {
		return Item{}, Invalidf("invalid quantity: must be at least 1")
	}

	var unit decimal.Decimal
	switch {
	case in.UnitPrice != nil:
		unit = *in.UnitPrice
	case in.Price != nil:
		// legacy clients send the line total; recover the unit price
		unit = in.Price.Div(decimal.NewFromInt(int64(in.Quantity))).Round(2)
	default:
		return Item{}, Invalidf("missing unit_price")
	}
	if unit.IsNegative() {
		return Item{}, Invalidf("unit_price must not be negative")
	}

	it, err := s.Repo.InsertItem(ctx, Item{
		ShopcartID: shopcartID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  unit,
		Price:      LinePrice(in.Quantity, unit),
	})
	if err != nil {
		return Item{}, err
	}
	log.Info().Int64("item_id", it.ItemID).Int64("shopcart_id", shopcartID).Msg("item created")
	return it, nil
}

func (s *ItemService) Retrieve(ctx context.Context, shopcartID, itemID int64) (Item, error) {
	return s.Repo.GetItem(ctx, shopcartID, itemID)
}

// Update applies the supplied fields and recomputes the price from the
// stored unit price, never from the old line total.
func (s *ItemService) Update(ctx context.Context, shopcartID, itemID int64, upd ItemUpdate) (Item, error) {
	it, err := s.Repo.GetItem(ctx, shopcartID, itemID)
	if err != nil {
		return Item{}, err
	}

	if upd.Quantity != nil {
		if *upd.Quantity < 1 {
			return Item{}, Invalidf("invalid quantity: must be at least 1")
		}
		it.Quantity = *upd.Quantity
	}
	if upd.UnitPrice != nil {
		if upd.UnitPrice.IsNegative() {
			return Item{}, Invalidf("unit_price must not be negative")
		}
		it.UnitPrice = *upd.UnitPrice
	}
	it.Price = LinePrice(it.Quantity, it.UnitPrice)

	return s.Repo.UpdateItem(ctx, it)
}

func (s *ItemService) Delete(ctx context.Context, shopcartID, itemID int64) (bool, error) {
	return s.Repo.DeleteItem(ctx, shopcartID, itemID)
}

func (s *ItemService) List(ctx context.Context, shopcartID int64) ([]Item, error) {
	return s.Repo.ListItems(ctx, shopcartID)
}
