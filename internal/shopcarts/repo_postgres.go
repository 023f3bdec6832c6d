package shopcarts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresRepo implements Repository on a pgx pool. Identity columns
// allocate shopcart_id and item_id, so concurrent creates cannot collide,
// and the items foreign key carries ON DELETE CASCADE.
type PostgresRepo struct{ DB *pgxpool.Pool }

const fkViolation = "23503"

func (r *PostgresRepo) InsertCart(ctx context.Context, customerID int64) (Shopcart, error) {
	var c Shopcart
	err := r.DB.QueryRow(ctx, `
		INSERT INTO shopcarts(customer_id)
		VALUES ($1)
		RETURNING shopcart_id, customer_id, created_at, updated_at`,
		customerID,
	).Scan(&c.ShopcartID, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PostgresRepo) GetCart(ctx context.Context, shopcartID int64) (Shopcart, error) {
	var c Shopcart
	err := r.DB.QueryRow(ctx, `
		SELECT shopcart_id, customer_id, created_at, updated_at
		FROM shopcarts WHERE shopcart_id=$1`,
		shopcartID,
	).Scan(&c.ShopcartID, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shopcart{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepo) ListCarts(ctx context.Context) ([]Shopcart, error) {
	return r.queryCarts(ctx, `
		SELECT shopcart_id, customer_id, created_at, updated_at
		FROM shopcarts ORDER BY shopcart_id`)
}

func (r *PostgresRepo) FindCartsByCustomer(ctx context.Context, customerID int64) ([]Shopcart, error) {
	return r.queryCarts(ctx, `
		SELECT shopcart_id, customer_id, created_at, updated_at
		FROM shopcarts WHERE customer_id=$1 ORDER BY shopcart_id`,
		customerID)
}

func (r *PostgresRepo) queryCarts(ctx context.Context, sql string, args ...any) ([]Shopcart, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Shopcart{}
	for rows.Next() {
		var c Shopcart
		if err := rows.Scan(&c.ShopcartID, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpdateCart(ctx context.Context, shopcartID, customerID int64) (Shopcart, error) {
	var c Shopcart
	err := r.DB.QueryRow(ctx, `
		UPDATE shopcarts SET customer_id=$2, updated_at=now()
		WHERE shopcart_id=$1
		RETURNING shopcart_id, customer_id, created_at, updated_at`,
		shopcartID, customerID,
	).Scan(&c.ShopcartID, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shopcart{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepo) DeleteCart(ctx context.Context, shopcartID int64) (bool, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM shopcarts WHERE shopcart_id=$1`, shopcartID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PostgresRepo) InsertItem(ctx context.Context, it Item) (Item, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO items(shopcart_id, product_id, quantity, unit_price, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING item_id`,
		it.ShopcartID, it.ProductID, it.Quantity, it.UnitPrice, it.Price,
	).Scan(&it.ItemID)
	if err != nil {
		// parent cart deleted before the insert committed
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

func (r *PostgresRepo) GetItem(ctx context.Context, shopcartID, itemID int64) (Item, error) {
	it, err := scanItem(r.DB.QueryRow(ctx, `
		SELECT item_id, shopcart_id, product_id, quantity, unit_price::text, price::text
		FROM items WHERE shopcart_id=$1 AND item_id=$2`,
		shopcartID, itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return it, err
}

func (r *PostgresRepo) ListItems(ctx context.Context, shopcartID int64) ([]Item, error) {
	if _, err := r.GetCart(ctx, shopcartID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT item_id, shopcart_id, product_id, quantity, unit_price::text, price::text
		FROM items WHERE shopcart_id=$1 ORDER BY item_id`,
		shopcartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpdateItem(ctx context.Context, it Item) (Item, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE items SET quantity=$3, unit_price=$4, price=$5
		WHERE shopcart_id=$1 AND item_id=$2`,
		it.ShopcartID, it.ItemID, it.Quantity, it.UnitPrice, it.Price)
	if err != nil {
		return Item{}, err
	}
	if ct.RowsAffected() == 0 {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *PostgresRepo) DeleteItem(ctx context.Context, shopcartID, itemID int64) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM items WHERE shopcart_id=$1 AND item_id=$2`,
		shopcartID, itemID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PostgresRepo) DeleteItemsIn(ctx context.Context, shopcartID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM items WHERE shopcart_id=$1`, shopcartID)
	return err
}

func scanItem(row pgx.Row) (Item, error) {
	var (
		it          Item
		unit, price string
	)
	if err := row.Scan(&it.ItemID, &it.ShopcartID, &it.ProductID, &it.Quantity, &unit, &price); err != nil {
		return Item{}, err
	}
	var err error
	if it.UnitPrice, err = decimal.NewFromString(unit); err != nil {
		return Item{}, err
	}
	if it.Price, err = decimal.NewFromString(price); err != nil {
		return Item{}, err
	}
	return it, nil
}
