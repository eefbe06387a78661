package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/online-storefront/internal/model"
)

// ProductRepo provides CRUD access to the `products` table.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productCols = "id,owner_id,title,description,image,price,category,stock,sizes,is_featured,rating,num_reviews,created_at"

// Create inserts a product and fills in its generated ID and creation time.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	p.CreatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (owner_id,title,description,image,price,category,stock,sizes,is_featured,rating,num_reviews,created_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)",
		p.OwnerID, p.Title, p.Description, p.Image, p.Price, p.Category, p.Stock,
		p.Sizes, p.IsFeatured, p.Rating, p.NumReviews, p.CreatedAt.Unix())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// List returns products newest first.  When ownerID is non-zero the result
// is restricted to products created by that account.
func (r *ProductRepo) List(ctx context.Context, ownerID uint64) ([]model.Product, error) {
	query := "SELECT " + productCols + " FROM products ORDER BY created_at DESC, id DESC"
	args := []any{}
	if ownerID != 0 {
		query = "SELECT " + productCols + " FROM products WHERE owner_id=? ORDER BY created_at DESC, id DESC"
		args = append(args, ownerID)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Save writes every column of an existing product back to the database.
// Partial-update semantics (which fields of a patch are applied) live in the
// handler, which loads the record, mutates it and calls Save.  MySQL reports
// zero affected rows for a no-op update, so existence is the caller's check.
func (r *ProductRepo) Save(ctx context.Context, p *model.Product) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE products SET owner_id=?, title=?, description=?, image=?, price=?, category=?, stock=?, sizes=?, is_featured=?, rating=?, num_reviews=? WHERE id=?",
		p.OwnerID, p.Title, p.Description, p.Image, p.Price, p.Category, p.Stock,
		p.Sizes, p.IsFeatured, p.Rating, p.NumReviews, p.ID)
	return err
}

// Delete removes a product permanently.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(s rowScanner) (model.Product, error) {
	var p model.Product
	var created int64
	err := s.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Image, &p.Price,
		&p.Category, &p.Stock, &p.Sizes, &p.IsFeatured, &p.Rating, &p.NumReviews, &created)
	if err != nil {
		return model.Product{}, err
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	return p, nil
}
