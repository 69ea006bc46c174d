package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"namidia/internal/models"
	"namidia/internal/repository"
)

// statsWindow bounds how far back the dashboard aggregations look.
const statsWindow = 30 * 24 * time.Hour

type StatsService struct {
	orderRepo        *repository.OrderRepository
	eventRepo        *repository.EventRepository
	confirmationRepo *repository.ConfirmationRepository
	couponRepo       *repository.CouponRepository
}

func NewStatsService(orderRepo *repository.OrderRepository, eventRepo *repository.EventRepository, confirmationRepo *repository.ConfirmationRepository, couponRepo *repository.CouponRepository) *StatsService {
	return &StatsService{
		orderRepo:        orderRepo,
		eventRepo:        eventRepo,
		confirmationRepo: confirmationRepo,
		couponRepo:       couponRepo,
	}
}

// Dashboard aggregates the admin cards over fetched rows. The grouping
// happens here rather than in the database, mirroring how the dashboard
// computed its charts client-side.
func (s *StatsService) Dashboard(ctx context.Context) (*models.StatsResponse, error) {
	orders, err := s.orderRepo.ListSince(ctx, time.Now().Add(-statsWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders for stats: %w", err)
	}

	stats := &models.StatsResponse{
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[string]int),
		OrdersPerDay:   make(map[string]int),
	}

	quantities := make(map[int64]*models.ProductRanking)
	completed := 0

	for _, order := range orders {
		stats.OrdersByStatus[order.Status]++
		stats.OrdersPerDay[order.CreatedAt.Format("2006-01-02")]++

		if order.Status == models.OrderStatusCancelled {
			continue
		}
		stats.Revenue += order.Total
		completed++

		for _, item := range order.Items {
			ranking, ok := quantities[item.ProductID]
			if !ok {
				ranking = &models.ProductRanking{ProductID: item.ProductID, Name: item.Name}
				quantities[item.ProductID] = ranking
			}
			ranking.Quantity += item.Quantity
		}
	}

	stats.Revenue = round2(stats.Revenue)
	if completed > 0 {
		stats.AverageTicket = round2(stats.Revenue / float64(completed))
	}

	rankings := make([]models.ProductRanking, 0, len(quantities))
	for _, r := range quantities {
		rankings = append(rankings, *r)
	}
	sort.Slice(rankings, func(a, b int) bool {
		if rankings[a].Quantity != rankings[b].Quantity {
			return rankings[a].Quantity > rankings[b].Quantity
		}
		return rankings[a].ProductID < rankings[b].ProductID
	})
	if len(rankings) > 5 {
		rankings = rankings[:5]
	}
	stats.TopProducts = rankings

	// The remaining cards are simple counts; a failure zeroes the card
	// instead of failing the whole dashboard.
	stats.TotalEvents = s.count(ctx, "events", s.eventRepo.CountAll)
	stats.Confirmations = s.count(ctx, "confirmations", s.confirmationRepo.CountAll)
	stats.CouponsIssued = s.count(ctx, "coupons", s.couponRepo.CountAll)
	stats.CouponsUsed = s.count(ctx, "coupons_used", s.couponRepo.CountUsed)

	return stats, nil
}

func (s *StatsService) count(ctx context.Context, name string, fn func(context.Context) (int64, error)) int {
	n, err := fn(ctx)
	if err != nil {
		slog.Error("Failed to count rows for stats", "counter", name, "error", err)
		return 0
	}
	return int(n)
}
