package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	d "github.com/valed-dm/ecombot/internal/domain"
)

func (r *Repository) GetProfile(ctx context.Context, customerID int64) (*d.Profile, error) {
	p := &d.Profile{CustomerID: customerID}
	var name, phone, address sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT name, phone, address FROM users WHERE id = $1`,
		customerID).Scan(&name, &phone, &address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Name = name.String
	p.Phone = phone.String
	p.Address = address.String
	return p, nil
}

// UpdateProfile persists newly collected contact data. Empty arguments never
// overwrite a value already on file.
func (r *Repository) UpdateProfile(ctx context.Context, customerID int64, phone, address string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET phone   = COALESCE(NULLIF($2, ''), phone),
		     address = COALESCE(NULLIF($3, ''), address)
		 WHERE id = $1`,
		customerID, phone, address)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
