package service

import (
	"namidia/internal/external"
	"namidia/internal/messaging"
	"namidia/internal/repository"
	"namidia/internal/search"
)

type Services struct {
	Events   *EventService
	Coupons  *CouponService
	Catalog  *CatalogService
	Orders   *OrderService
	Profiles *ProfileService
	Stats    *StatsService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, searchClient *search.ElasticsearchClient, emailClient *external.EmailClient, siteURL string) *Services {
	couponService := NewCouponService(repos.Coupons, natsClient)
	eventService := NewEventService(repos.Events, repos.Confirmations, couponService, natsClient)
	catalogService := NewCatalogService(repos.Products, repos.Categories, searchClient)
	orderService := NewOrderService(repos.Orders, repos.Products, couponService, emailClient, natsClient, siteURL)
	profileService := NewProfileService(repos.Profiles)
	statsService := NewStatsService(repos.Orders, repos.Events, repos.Confirmations, repos.Coupons)

	return &Services{
		Events:   eventService,
		Coupons:  couponService,
		Catalog:  catalogService,
		Orders:   orderService,
		Profiles: profileService,
		Stats:    statsService,
	}
}
