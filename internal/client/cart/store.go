// Package cart persists the shopping cart in a local sqlite database so it
// survives client restarts.  State changes go through reducer-style methods
// and the total is always recomputed from the stored lines, never adjusted
// incrementally.
package cart

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/iliyamo/online-storefront/internal/client/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS cart_items (
    product_id INTEGER PRIMARY KEY,
    title      TEXT NOT NULL,
    price      REAL NOT NULL,
    image      TEXT NOT NULL DEFAULT '',
    size       TEXT NOT NULL DEFAULT '',
    quantity   INTEGER NOT NULL
);`

// Item is one cart line.  Size is the optional selected variant; it does not
// participate in line identity, which is the product id alone.
type Item struct {
	ProductID uint64
	Title     string
	Price     float64
	Image     string
	Size      string
	Quantity  int64
}

// Store is the persisted cart.  Path ":memory:" gives a throwaway cart.
type Store struct {
	db *sql.DB
}

// Open creates or reopens the cart database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cart db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cart db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Add puts a product in the cart with an optionally selected size.  Adding a
// product that is already present increments its quantity instead of
// creating a second line; the latest size choice wins.
func (s *Store) Add(ctx context.Context, p api.Product, size string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (product_id, title, price, image, size, quantity)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(product_id) DO UPDATE SET quantity = quantity + 1, size = excluded.size`,
		p.ID, p.Title, p.Price, p.Image, size)
	return err
}

// UpdateQuantity sets the quantity of a line.  A quantity of zero or less
// removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID uint64, quantity int64) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = ? WHERE product_id = ?`, quantity, productID)
	return err
}

// Remove deletes a line.  Removing an absent product is not an error.
func (s *Store) Remove(ctx context.Context, productID uint64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE product_id = ?`, productID)
	return err
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items`)
	return err
}

// Items returns the cart lines ordered by product id.
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, title, price, image, size, quantity
		FROM cart_items ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Title, &it.Price, &it.Image, &it.Size, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Total recomputes the cart total from the stored lines.
func (s *Store) Total(ctx context.Context) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(price * quantity) FROM cart_items`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
