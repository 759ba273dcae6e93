package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

// CreateDonor adds a donor. A taken name fails with ErrDuplicate.
func CreateDonor(ctx context.Context, db *sql.DB, n model.NewDonor) (*model.Donor, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO donors (name, address, phone, email, notes) VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(n.Name), n.Address, n.Phone, strings.TrimSpace(n.Email), n.Notes,
	)
	if err != nil {
		return nil, wrap("creating donor", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting donor id: %w", err)
	}

	return GetDonor(ctx, db, id)
}

const donorQuery = `
	SELECT d.id, d.name, d.address, d.phone, d.email, d.notes, d.created_at,
	       (SELECT COUNT(*) FROM donations n WHERE n.donor_id = d.id)
	FROM donors d`

func scanDonor(s rowScanner) (model.Donor, error) {
	var d model.Donor
	var address, phone, email, notes sql.NullString
	err := s.Scan(&d.ID, &d.Name, &address, &phone, &email, &notes, &d.CreatedAt, &d.DonationCount)
	d.Address = address.String
	d.Phone = phone.String
	d.Email = email.String
	d.Notes = notes.String
	return d, err
}

// GetDonor returns a donor by ID.
func GetDonor(ctx context.Context, db *sql.DB, id int64) (*model.Donor, error) {
	d, err := scanDonor(db.QueryRowContext(ctx, donorQuery+` WHERE d.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donor: %w", err)
	}
	return &d, nil
}

// ListDonors returns all donors in Swedish alphabetical order.
func ListDonors(ctx context.Context, db *sql.DB) ([]model.Donor, error) {
	rows, err := db.QueryContext(ctx, donorQuery)
	if err != nil {
		return nil, fmt.Errorf("listing donors: %w", err)
	}
	defer rows.Close()

	var donors []model.Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning donor: %w", err)
		}
		donors = append(donors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortSwedish(donors, func(d model.Donor) string { return d.Name })
	return donors, nil
}

// DeleteDonor removes a donor. Fails with ErrInUse while donations refer to it.
func DeleteDonor(ctx context.Context, db *sql.DB, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM donations WHERE donor_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking donor donations: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("donor has %d donations: %w", count, ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM donors WHERE id = ?`, id)
	if err != nil {
		return wrap("deleting donor", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting donor %d: %w", id, ErrNotFound)
	}
	return nil
}
