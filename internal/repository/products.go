package repository

import (
	"context"
	"errors"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

// ProductFilter narrows the storefront product listing.
type ProductFilter struct {
	CategoryID   int64
	FeaturedOnly bool
	ActiveOnly   bool
	Limit        int
	Offset       int
}

type ProductRepository struct {
	sb *supabase.Client
}

func NewProductRepository(sb *supabase.Client) *ProductRepository {
	return &ProductRepository{sb: sb}
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.DeliveryProduct, error) {
	query := r.sb.From("delivery_products").Select("*").Order("name", true)

	if filter.CategoryID > 0 {
		query = query.Eq("category_id", filter.CategoryID)
	}
	if filter.FeaturedOnly {
		query = query.Eq("featured", true)
	}
	if filter.ActiveOnly {
		query = query.Eq("active", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []models.DeliveryProduct
	if err := query.Get(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.DeliveryProduct, error) {
	var product models.DeliveryProduct
	err := r.sb.From("delivery_products").Select("*").Eq("id", id).Single().Get(ctx, &product)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs fetches the product snapshots referenced by a checkout request.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.DeliveryProduct, error) {
	var products []models.DeliveryProduct
	err := r.sb.From("delivery_products").Select("*").In("id", ids).Get(ctx, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// productColumns lists the writable columns, leaving id and created_at
// to the backend.
func productColumns(product *models.DeliveryProduct) map[string]any {
	return map[string]any{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"promo_price": product.PromoPrice,
		"stock":       product.Stock,
		"active":      product.Active,
		"featured":    product.Featured,
		"alcoholic":   product.Alcoholic,
		"category_id": product.CategoryID,
		"image_path":  product.ImagePath,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.DeliveryProduct) error {
	return r.sb.From("delivery_products").AsServiceRole().Single().Insert(ctx, productColumns(product), product)
}

func (r *ProductRepository) Update(ctx context.Context, product *models.DeliveryProduct) error {
	return r.sb.From("delivery_products").AsServiceRole().Eq("id", product.ID).Single().Update(ctx, productColumns(product), product)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.sb.From("delivery_products").AsServiceRole().Eq("id", id).Delete(ctx)
}

// DecrementStock reduces the stock count through a stored procedure; the
// backend refuses to go below zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	return r.sb.RPC(ctx, "decrement_product_stock", map[string]any{
		"p_product_id": productID,
		"p_quantity":   quantity,
	}, nil)
}
