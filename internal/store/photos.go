package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

func insertPhoto(ctx context.Context, q querier, n model.NewPhoto) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO photos (item_id, data, mime, width, height, description, photographer)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ItemID, n.Data, n.Mime, n.Width, n.Height, n.Description, n.Photographer,
	)
	if err != nil {
		return 0, wrap("adding photo", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting photo id: %w", err)
	}
	return id, nil
}

// AddPhoto stores an already processed image for an item.
func AddPhoto(ctx context.Context, db *sql.DB, n model.NewPhoto) (*model.Photo, error) {
	id, err := insertPhoto(ctx, db, n)
	if err != nil {
		return nil, err
	}
	return GetPhoto(ctx, db, id)
}

const photoQuery = `
	SELECT id, item_id, mime, width, height, length(data), description, photographer, created_at
	FROM photos`

func scanPhoto(s rowScanner) (model.Photo, error) {
	var p model.Photo
	var description, photographer sql.NullString
	err := s.Scan(&p.ID, &p.ItemID, &p.Mime, &p.Width, &p.Height, &p.Size, &description, &photographer, &p.CreatedAt)
	p.Description = description.String
	p.Photographer = photographer.String
	return p, err
}

// GetPhoto returns photo metadata by ID.
func GetPhoto(ctx context.Context, db *sql.DB, id int64) (*model.Photo, error) {
	p, err := scanPhoto(db.QueryRowContext(ctx, photoQuery+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting photo: %w", err)
	}
	return &p, nil
}

// GetPhotoData returns a photo's image bytes and MIME type.
func GetPhotoData(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM photos WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting photo data: %w", err)
	}
	return data, mime, nil
}

// ListItemPhotos returns the metadata of an item's photos, oldest first.
func ListItemPhotos(ctx context.Context, db *sql.DB, itemID int64) ([]model.Photo, error) {
	rows, err := db.QueryContext(ctx, photoQuery+` WHERE item_id = ? ORDER BY id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	defer rows.Close()

	var photos []model.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// DeletePhoto removes a photo.
func DeletePhoto(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting photo %d: %w", id, ErrNotFound)
	}
	return nil
}
