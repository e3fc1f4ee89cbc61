package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// GrievanceRepo manages customer support tickets.
type GrievanceRepo struct {
	DB *sql.DB
}

// NewGrievanceRepo constructs a GrievanceRepo.
func NewGrievanceRepo(db *sql.DB) *GrievanceRepo { return &GrievanceRepo{DB: db} }

const grievanceColumns = `id, customer_id, booking_id, subject, description, status,
	resolution, created_at, updated_at`

func scanGrievance(row interface{ Scan(...any) error }) (*model.Grievance, error) {
	var g model.Grievance
	err := row.Scan(&g.ID, &g.CustomerID, &g.BookingID, &g.Subject, &g.Description,
		&g.Status, &g.Resolution, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create files a new ticket in the open status.
func (r *GrievanceRepo) Create(ctx context.Context, g *model.Grievance) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO grievances (customer_id, booking_id, subject, description, status)
		 VALUES (?, ?, ?, ?, ?)`,
		g.CustomerID, g.BookingID, g.Subject, g.Description, model.GrievanceOpen)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	g.Status = model.GrievanceOpen
	return nil
}

// GetByID fetches a ticket by primary key.
func (r *GrievanceRepo) GetByID(ctx context.Context, id uint64) (*model.Grievance, error) {
	return scanGrievance(r.DB.QueryRowContext(ctx,
		`SELECT `+grievanceColumns+` FROM grievances WHERE id = ?`, id))
}

// ListByCustomer returns a customer's tickets, newest first.
func (r *GrievanceRepo) ListByCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]*model.Grievance, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grievances WHERE customer_id = ?`, customerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+grievanceColumns+` FROM grievances WHERE customer_id = ?
		 ORDER BY id DESC LIMIT ? OFFSET ?`, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectGrievances(rows, total)
}

// ListAll returns tickets across the platform, optionally filtered by
// status, for the admin support queue.
func (r *GrievanceRepo) ListAll(ctx context.Context, status string, limit, offset int) ([]*model.Grievance, int, error) {
	where := ``
	args := []any{}
	if status != "" {
		where = ` WHERE status = ?`
		args = append(args, status)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM grievances`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+grievanceColumns+` FROM grievances`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectGrievances(rows, total)
}

func collectGrievances(rows *sql.Rows, total int) ([]*model.Grievance, int, error) {
	var out []*model.Grievance
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

// UpdateStatus moves a ticket to a new status and records the admin's
// resolution note.
func (r *GrievanceRepo) UpdateStatus(ctx context.Context, id uint64, status, resolution string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE grievances SET status = ?, resolution = ? WHERE id = ?`, status, resolution, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
