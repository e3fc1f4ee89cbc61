package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// StatsRepo aggregates platform-wide figures for the admin dashboard
// and analytics endpoints.
type StatsRepo struct {
	DB *sql.DB
}

// NewStatsRepo constructs a StatsRepo.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// DashboardStats is the at-a-glance snapshot on the admin home screen.
type DashboardStats struct {
	TotalUsers      int   `json:"total_users"`
	TotalCustomers  int   `json:"total_customers"`
	TotalHotels     int   `json:"total_hotels"`
	PendingHotels   int   `json:"pending_hotels"`
	TotalBookings   int   `json:"total_bookings"`
	ActiveBookings  int   `json:"active_bookings"`
	OpenGrievances  int   `json:"open_grievances"`
	RevenueCents    int64 `json:"revenue_cents"`
	PendingApproval int   `json:"bookings_awaiting_confirmation"`
}

// Dashboard gathers the dashboard counters.  Revenue counts completed
// and checked-out stays only; cancelled money is not revenue.
func (r *StatsRepo) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	steps := []struct {
		q    string
		dest any
	}{
		{`SELECT COUNT(*) FROM users`, &s.TotalUsers},
		{`SELECT COUNT(*) FROM users WHERE role = 'CUSTOMER'`, &s.TotalCustomers},
		{`SELECT COUNT(*) FROM hotels`, &s.TotalHotels},
		{`SELECT COUNT(*) FROM hotels WHERE is_verified = 0`, &s.PendingHotels},
		{`SELECT COUNT(*) FROM bookings`, &s.TotalBookings},
		{`SELECT COUNT(*) FROM bookings WHERE status IN ('pending','confirmed','checked_in')`, &s.ActiveBookings},
		{`SELECT COUNT(*) FROM bookings WHERE status = 'pending'`, &s.PendingApproval},
		{`SELECT COUNT(*) FROM grievances WHERE status IN ('open','in_progress')`, &s.OpenGrievances},
		{`SELECT COALESCE(SUM(total_cents + damage_cents), 0) FROM bookings WHERE status IN ('checked_out','completed')`, &s.RevenueCents},
	}
	for _, st := range steps {
		if err := r.DB.QueryRowContext(ctx, st.q).Scan(st.dest); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// PeriodStats is one analytics window over the booking ledger.
type PeriodStats struct {
	Days              int   `json:"days"`
	NewUsers          int   `json:"new_users"`
	BookingsCreated   int   `json:"bookings_created"`
	BookingsCancelled int   `json:"bookings_cancelled"`
	BookingsCompleted int   `json:"bookings_completed"`
	RevenueCents      int64 `json:"revenue_cents"`
	RefundedCents     int64 `json:"refunded_cents"`
}

// Analytics computes booking and revenue figures for the trailing
// window of the given number of days.
func (r *StatsRepo) Analytics(ctx context.Context, days int) (*PeriodStats, error) {
	if days <= 0 {
		return nil, fmt.Errorf("analytics window must be positive, got %d", days)
	}
	s := PeriodStats{Days: days}
	since := `DATE_SUB(UTC_TIMESTAMP(), INTERVAL ? DAY)`
	steps := []struct {
		q    string
		dest any
	}{
		{`SELECT COUNT(*) FROM users WHERE created_at >= ` + since, &s.NewUsers},
		{`SELECT COUNT(*) FROM bookings WHERE created_at >= ` + since, &s.BookingsCreated},
		{`SELECT COUNT(*) FROM bookings WHERE status = 'cancelled' AND cancelled_at >= ` + since, &s.BookingsCancelled},
		{`SELECT COUNT(*) FROM bookings WHERE status IN ('checked_out','completed') AND checked_out_at >= ` + since, &s.BookingsCompleted},
		{`SELECT COALESCE(SUM(total_cents + damage_cents), 0) FROM bookings WHERE status IN ('checked_out','completed') AND checked_out_at >= ` + since, &s.RevenueCents},
		{`SELECT COALESCE(SUM(refund_cents), 0) FROM bookings WHERE status = 'cancelled' AND cancelled_at >= ` + since, &s.RefundedCents},
	}
	for _, st := range steps {
		if err := r.DB.QueryRowContext(ctx, st.q, days).Scan(st.dest); err != nil {
			return nil, err
		}
	}
	return &s, nil
}
