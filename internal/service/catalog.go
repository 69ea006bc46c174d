package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "namidia/internal/errors"
	"namidia/internal/models"
	"namidia/internal/repository"
	"namidia/internal/search"
)

type CatalogService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	searchClient *search.ElasticsearchClient
}

func NewCatalogService(productRepo *repository.ProductRepository, categoryRepo *repository.CategoryRepository, searchClient *search.ElasticsearchClient) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		searchClient: searchClient,
	}
}

// Categories returns the storefront category bar, ordered for display.
func (s *CatalogService) Categories(ctx context.Context, activeOnly bool) ([]models.DeliveryCategory, error) {
	categories, err := s.categoryRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Products lists storefront products. A non-empty query goes through the
// search index when one is configured, otherwise falls back to a plain
// listing.
func (s *CatalogService) Products(ctx context.Context, query string, filter repository.ProductFilter) ([]models.DeliveryProduct, error) {
	if query != "" && s.searchClient != nil {
		return s.searchProducts(ctx, query, filter.Limit)
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// searchProducts resolves search hits back to product rows, preserving
// relevance order.
func (s *CatalogService) searchProducts(ctx context.Context, query string, limit int) ([]models.DeliveryProduct, error) {
	ids, err := s.searchClient.SearchProducts(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}
	if len(ids) == 0 {
		return []models.DeliveryProduct{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = fmt.Sprintf("%d", id)
	}

	products, err := s.productRepo.GetByIDs(ctx, idStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search results: %w", err)
	}

	byID := make(map[int64]models.DeliveryProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ordered := make([]models.DeliveryProduct, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.Active {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.DeliveryProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, apperrors.ErrNotFound
	}
	return product, nil
}

// CreateProduct persists the product and mirrors it into the search
// index. Index failures only log; the backend row is the source of truth.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.DeliveryProduct) error {
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	s.indexProduct(ctx, product)
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.DeliveryProduct) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	s.indexProduct(ctx, product)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if s.searchClient != nil {
		if err := s.searchClient.DeleteProduct(ctx, id); err != nil {
			slog.Error("Failed to remove product from search index", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) indexProduct(ctx context.Context, product *models.DeliveryProduct) {
	if s.searchClient == nil {
		return
	}
	if err := s.searchClient.IndexProduct(ctx, product); err != nil {
		slog.Error("Failed to index product", "product_id", product.ID, "error", err)
	}
}

// CreateCategory fills the slug from the name when absent and persists
// the category.
func (s *CatalogService) CreateCategory(ctx context.Context, category *models.DeliveryCategory) error {
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}

	// Slug uniqueness is enforced by the backend; surface a clearer
	// error when the slug is already taken.
	existing, err := s.categoryRepo.GetBySlug(ctx, category.Slug)
	if err != nil {
		return fmt.Errorf("failed to check category slug: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("category slug %q is already in use", category.Slug)
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category *models.DeliveryCategory) error {
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
