package repository // repository layer – data access for users

import (
	"context"      // pass request context to queries
	"database/sql" // database handle and row scanning
	"errors"       // sentinel errors

	"github.com/iliyamo/hotel-booking-marketplace/internal/model" // user model
)

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// UserRepo wraps a sql.DB handle and provides user-table operations.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a new user and fills in the generated ID.  A
// duplicate email is reported as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (email, password_hash, role, full_name, phone, is_active)
	           VALUES (?, ?, ?, ?, ?, 1)`
	res, err := r.DB.ExecContext(ctx, q, u.Email, u.PasswordHash, u.Role, u.FullName, u.Phone)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

const userColumns = `id, email, password_hash, role, full_name, phone, is_active,
	email_verified_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FullName, &u.Phone,
		&u.IsActive, &u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail fetches a user by email.  Returns sql.ErrNoRows if absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// GetByID fetches a user by primary key.  Returns sql.ErrNoRows if absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// UpdateProfile changes the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, phone string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET full_name = ?, phone = ? WHERE id = ?`, fullName, phone, id)
	return err
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	return err
}

// MarkEmailVerified stamps email_verified_at if not already set.
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email_verified_at = UTC_TIMESTAMP() WHERE id = ? AND email_verified_at IS NULL`, id)
	return err
}

// SetActive toggles whether the account may authenticate.  Used by
// admins to suspend or restore users.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET is_active = ? WHERE id = ?`, active, id)
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

// List returns a page of users for the admin console, optionally
// filtered by role, newest first, along with the total match count.
func (r *UserRepo) List(ctx context.Context, role string, limit, offset int) ([]*model.User, int, error) {
	where := ``
	args := []any{}
	if role != "" {
		where = ` WHERE role = ?`
		args = append(args, role)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}
