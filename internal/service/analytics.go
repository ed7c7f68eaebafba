package service

import (
	"context"
	"sort"
	"time"

	"pickle-admin/internal/models"
	"pickle-admin/internal/store"
	"pickle-admin/internal/util"
)

// AnalyticsService derives dashboard figures as pure read-time projections
// over the collections. Nothing here is stored, so nothing here can drift.
type AnalyticsService struct {
	store             *store.Store
	lowStockThreshold int
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(store *store.Store, lowStockThreshold int) *AnalyticsService {
	return &AnalyticsService{
		store:             store,
		lowStockThreshold: lowStockThreshold,
	}
}

// Overview aggregates the dashboard and analytics figures.
type Overview struct {
	TotalProducts   int           `json:"total_products"`
	TotalCustomers  int           `json:"total_customers"`
	TotalOrders     int           `json:"total_orders"`
	TotalRevenue    float64       `json:"total_revenue"`
	MonthlyRevenue  float64       `json:"monthly_revenue"`
	MonthlyOrders   int           `json:"monthly_orders"`
	TodayOrders     int           `json:"today_orders"`
	LowStock        []LowStock    `json:"low_stock"`
	TopCustomers    []TopCustomer `json:"top_customers"`
	Last7Days       []DayTrend    `json:"last_7_days"`
}

// LowStock flags a product at or below the configured threshold.
type LowStock struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// TopCustomer ranks a customer by lifetime spend.
type TopCustomer struct {
	CustomerID  string  `json:"customer_id"`
	Name        string  `json:"name"`
	TotalOrders int     `json:"total_orders"`
	TotalSpent  float64 `json:"total_spent"`
}

// DayTrend holds one day's order count and revenue.
type DayTrend struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Overview computes the full dashboard projection.
func (s *AnalyticsService) Overview(ctx context.Context) (Overview, error) {
	ctx, span := util.StartSpan(ctx, "AnalyticsService.Overview")
	defer span.End()

	products, err := s.store.Products(ctx)
	if err != nil {
		return Overview{}, err
	}
	customers, err := s.store.Customers(ctx)
	if err != nil {
		return Overview{}, err
	}
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return Overview{}, err
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	ov := Overview{
		TotalProducts:  len(products),
		TotalCustomers: len(customers),
		TotalOrders:    len(orders),
	}

	revenueByDay := map[string]*DayTrend{}
	for i := 6; i >= 0; i-- {
		date := dayStart.AddDate(0, 0, -i).Format("2006-01-02")
		trend := &DayTrend{Date: date}
		revenueByDay[date] = trend
		ov.Last7Days = append(ov.Last7Days, *trend)
	}

	for _, o := range orders {
		ov.TotalRevenue += o.Total
		if !o.CreatedAt.Before(monthStart) {
			ov.MonthlyRevenue += o.Total
			ov.MonthlyOrders++
		}
		if !o.CreatedAt.Before(dayStart) {
			ov.TodayOrders++
		}
		if trend, ok := revenueByDay[o.CreatedAt.UTC().Format("2006-01-02")]; ok {
			trend.Orders++
			trend.Revenue += o.Total
		}
	}
	for i := range ov.Last7Days {
		ov.Last7Days[i] = *revenueByDay[ov.Last7Days[i].Date]
	}

	for _, p := range products {
		if p.IsActive && p.StockQuantity <= s.lowStockThreshold {
			ov.LowStock = append(ov.LowStock, LowStock{
				ProductID: p.ID,
				Name:      p.Name,
				Stock:     p.StockQuantity,
			})
		}
	}

	ov.TopCustomers = topCustomers(customers, 5)
	return ov, nil
}

func topCustomers(customers []models.Customer, limit int) []TopCustomer {
	sorted := make([]models.Customer, len(customers))
	copy(sorted, customers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalSpent > sorted[j].TotalSpent
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	top := make([]TopCustomer, 0, len(sorted))
	for _, c := range sorted {
		top = append(top, TopCustomer{
			CustomerID:  c.ID,
			Name:        c.Name,
			TotalOrders: c.TotalOrders,
			TotalSpent:  c.TotalSpent,
		})
	}
	return top
}
