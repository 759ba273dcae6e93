package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

func insertDonation(ctx context.Context, q querier, n model.NewDonation) (int64, error) {
	acquisition := n.AcquisitionType
	if acquisition == "" {
		acquisition = model.AcquisitionGift
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO donations (item_id, donor_id, donated_on, acquisition_type, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		n.ItemID, n.DonorID, n.DonatedOn, acquisition, n.Notes,
	)
	if err != nil {
		return 0, wrap("creating donation", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting donation id: %w", err)
	}
	return id, nil
}

// CreateDonation records that an item came from a donor. Unknown item or
// donor ids fail with ErrInvalidReference.
func CreateDonation(ctx context.Context, db *sql.DB, n model.NewDonation) (*model.Donation, error) {
	id, err := insertDonation(ctx, db, n)
	if err != nil {
		return nil, err
	}

	donations, err := queryDonations(ctx, db, `WHERE n.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(donations) == 0 {
		return nil, fmt.Errorf("reading donation %d back: %w", id, ErrNotFound)
	}
	return &donations[0], nil
}

// ListItemDonations returns the provenance records of an item, oldest first.
func ListItemDonations(ctx context.Context, db *sql.DB, itemID int64) ([]model.Donation, error) {
	return queryDonations(ctx, db, `WHERE n.item_id = ? ORDER BY n.id`, itemID)
}

// ListDonorDonations returns the donations made by a donor, oldest first.
func ListDonorDonations(ctx context.Context, db *sql.DB, donorID int64) ([]model.Donation, error) {
	return queryDonations(ctx, db, `WHERE n.donor_id = ? ORDER BY n.id`, donorID)
}

func queryDonations(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.Donation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT n.id, n.item_id, n.donor_id, n.donated_on, n.acquisition_type, n.notes, n.created_at,
		        d.name, i.name, i.accession_number
		 FROM donations n
		 JOIN donors d ON d.id = n.donor_id
		 JOIN items i ON i.id = n.item_id
		 `+where, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		var donatedOn, notes sql.NullString
		if err := rows.Scan(&d.ID, &d.ItemID, &d.DonorID, &donatedOn, &d.AcquisitionType, &notes, &d.CreatedAt,
			&d.DonorName, &d.ItemName, &d.AccessionNumber); err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}
		d.DonatedOn = donatedOn.String
		d.Notes = notes.String
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
