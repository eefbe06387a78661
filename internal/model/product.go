package model

import "time"

// Product mirrors the `products` table.  Image holds the public URL returned
// by the blob store when the product image was uploaded.  Sizes is a comma
// separated list of size labels ("S,M,L"); handlers split it before
// rendering.  OwnerID references the admin account that created the product
// and may be zero when the owner was deleted.
type Product struct {
	ID          uint64    // products.id
	OwnerID     uint64    // products.owner_id (0 when unowned)
	Title       string    // products.title
	Description string    // products.description
	Image       string    // products.image (blob store URL)
	Price       float64   // products.price, non-negative
	Category    string    // products.category, free-text label
	Stock       int64     // products.stock, non-negative
	Sizes       string    // products.sizes, comma separated labels
	IsFeatured  bool      // products.is_featured
	Rating      float64   // products.rating
	NumReviews  int64     // products.num_reviews
	CreatedAt   time.Time // products.created_at
}
