package shopcarts

import (
	"time"

	"github.com/shopspring/decimal"
)

type Shopcart struct {
	ShopcartID int64
	CustomerID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Item struct {
	ItemID     int64
	ShopcartID int64
	ProductID  int64
	Quantity   int
	UnitPrice  decimal.Decimal
	Price      decimal.Decimal
}

// LinePrice is the canonical price rule: quantity * unit price,
// rounded half up to two places.
func LinePrice(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
