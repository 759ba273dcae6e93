package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

// CreateLocation adds a storage location. The same building, room and shelf
// combination fails with ErrDuplicate.
func CreateLocation(ctx context.Context, db *sql.DB, n model.NewLocation) (*model.Location, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO locations (building, room, shelf, notes) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(n.Building), strings.TrimSpace(n.Room), strings.TrimSpace(n.Shelf), n.Notes,
	)
	if err != nil {
		return nil, wrap("creating location", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting location id: %w", err)
	}

	return GetLocation(ctx, db, id)
}

const locationQuery = `
	SELECT l.id, l.building, l.room, l.shelf, l.notes, l.created_at,
	       (SELECT COUNT(*) FROM items i WHERE i.location_id = l.id)
	FROM locations l`

func scanLocation(s rowScanner) (model.Location, error) {
	var l model.Location
	var notes sql.NullString
	err := s.Scan(&l.ID, &l.Building, &l.Room, &l.Shelf, &notes, &l.CreatedAt, &l.ItemCount)
	l.Notes = notes.String
	return l, err
}

// GetLocation returns a location by ID.
func GetLocation(ctx context.Context, db *sql.DB, id int64) (*model.Location, error) {
	l, err := scanLocation(db.QueryRowContext(ctx, locationQuery+` WHERE l.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	return &l, nil
}

// ListLocations returns all locations ordered by label.
func ListLocations(ctx context.Context, db *sql.DB) ([]model.Location, error) {
	rows, err := db.QueryContext(ctx, locationQuery)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortSwedish(locations, model.Location.Label)
	return locations, nil
}

// DeleteLocation removes a location. Items stored there become unplaced;
// the number of detached items is returned.
func DeleteLocation(ctx context.Context, db *sql.DB, id int64) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var detached int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE location_id = ?`, id,
	).Scan(&detached); err != nil {
		return 0, fmt.Errorf("counting items at location: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return 0, wrap("deleting location", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("deleting location %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing location delete: %w", err)
	}
	return detached, nil
}

// SeedLocations inserts the given locations unless they already exist and
// returns how many were added.
func SeedLocations(ctx context.Context, db *sql.DB, locations []model.NewLocation) (int, error) {
	added := 0
	for _, l := range locations {
		result, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO locations (building, room, shelf, notes) VALUES (?, ?, ?, ?)`,
			l.Building, l.Room, l.Shelf, l.Notes,
		)
		if err != nil {
			return added, fmt.Errorf("seeding location %q: %w", l.Building, err)
		}
		n, _ := result.RowsAffected()
		added += int(n)
	}
	return added, nil
}
