package repository

import (
	"context"
	"errors"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

type CategoryRepository struct {
	sb *supabase.Client
}

func NewCategoryRepository(sb *supabase.Client) *CategoryRepository {
	return &CategoryRepository{sb: sb}
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.DeliveryCategory, error) {
	query := r.sb.From("delivery_categories").Select("*").Order("display_order", true)
	if activeOnly {
		query = query.Eq("active", true)
	}

	var categories []models.DeliveryCategory
	if err := query.Get(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.DeliveryCategory, error) {
	var category models.DeliveryCategory
	err := r.sb.From("delivery_categories").Select("*").Eq("slug", slug).Single().Get(ctx, &category)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// categoryColumns lists the writable columns; id stays with the backend.
func categoryColumns(category *models.DeliveryCategory) map[string]any {
	return map[string]any{
		"name":          category.Name,
		"slug":          category.Slug,
		"icon":          category.Icon,
		"display_order": category.DisplayOrder,
		"active":        category.Active,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.DeliveryCategory) error {
	return r.sb.From("delivery_categories").AsServiceRole().Single().Insert(ctx, categoryColumns(category), category)
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.DeliveryCategory) error {
	return r.sb.From("delivery_categories").AsServiceRole().Eq("id", category.ID).Single().Update(ctx, categoryColumns(category), category)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.sb.From("delivery_categories").AsServiceRole().Eq("id", id).Delete(ctx)
}
