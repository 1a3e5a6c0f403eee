package repository

import (
	"time"

	"trixtech/internal/domain"
	"trixtech/internal/models"

	"gorm.io/gorm"
)

type StatusCount struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

type ServiceRevenue struct {
	ServiceID uint    `json:"service_id"`
	Name      string  `json:"name"`
	Revenue   float64 `json:"revenue"`
	Bookings  int64   `json:"bookings"`
}

type DashboardStats struct {
	Period struct {
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	} `json:"period"`
	Totals struct {
		Users     int64 `json:"users"`
		Services  int64 `json:"services"`
		Bookings  int64 `json:"bookings"`
		Customers int64 `json:"customers"`
	} `json:"totals"`
	BookingStats     []StatusCount    `json:"booking_stats"`
	PaymentStats     []StatusCount    `json:"payment_stats"`
	RevenueByService []ServiceRevenue `json:"revenue_by_service"`
}

type TableCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// AdminRepository serves the read-only reporting surface: dashboard
// aggregates and health checks. No lifecycle state is mutated here.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats(startDate, endDate time.Time) (*DashboardStats, error) {
	s := &DashboardStats{}
	s.Period.StartDate = startDate
	s.Period.EndDate = endDate

	r.db.Model(&models.User{}).Count(&s.Totals.Users)
	r.db.Model(&models.Service{}).Count(&s.Totals.Services)
	r.db.Model(&models.Booking{}).Count(&s.Totals.Bookings)
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleCustomer).Count(&s.Totals.Customers)

	if err := r.db.Model(&models.Booking{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(total_price), 0) as total").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("status").
		Scan(&s.BookingStats).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Payment{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("status").
		Scan(&s.PaymentStats).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Booking{}).
		Select("bookings.service_id, services.name, COALESCE(SUM(bookings.total_price), 0) as revenue, COUNT(*) as bookings").
		Joins("JOIN services ON services.id = bookings.service_id").
		Where("bookings.created_at BETWEEN ? AND ? AND bookings.payment_status = ?", startDate, endDate, domain.PaymentStatusCompleted).
		Group("bookings.service_id, services.name").
		Scan(&s.RevenueByService).Error; err != nil {
		return nil, err
	}

	return s, nil
}

// Ping reports store reachability and round-trip latency.
func (r *AdminRepository) Ping() (time.Duration, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return 0, err
	}
	start := time.Now()
	if err := sqlDB.Ping(); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// TableCounts returns row counts per collection for the health endpoint.
func (r *AdminRepository) TableCounts() ([]TableCount, error) {
	tables := []interface{}{
		&models.User{}, &models.Service{}, &models.TimeSlot{},
		&models.Booking{}, &models.Payment{}, &models.Review{}, &models.AdminLog{},
	}
	names := []string{"users", "services", "timeslots", "bookings", "payments", "reviews", "adminlogs"}
	counts := make([]TableCount, 0, len(tables))
	for i, t := range tables {
		var n int64
		if err := r.db.Model(t).Count(&n).Error; err != nil {
			return nil, err
		}
		counts = append(counts, TableCount{Name: names[i], Count: n})
	}
	return counts, nil
}
