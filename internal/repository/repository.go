package repository

import (
	"namidia/internal/supabase"
)

// Repositories aggregates the per-table data access wrappers. Each one is
// a thin layer over the backend client: no local caching, retries or
// transaction coordination happens here.
type Repositories struct {
	Events        *EventRepository
	Confirmations *ConfirmationRepository
	Coupons       *CouponRepository
	Products      *ProductRepository
	Categories    *CategoryRepository
	Orders        *OrderRepository
	Profiles      *ProfileRepository
}

func NewRepositories(sb *supabase.Client) *Repositories {
	return &Repositories{
		Events:        NewEventRepository(sb),
		Confirmations: NewConfirmationRepository(sb),
		Coupons:       NewCouponRepository(sb),
		Products:      NewProductRepository(sb),
		Categories:    NewCategoryRepository(sb),
		Orders:        NewOrderRepository(sb),
		Profiles:      NewProfileRepository(sb),
	}
}
