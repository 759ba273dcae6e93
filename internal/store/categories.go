package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

// CreateCategory adds a category. A taken name fails with ErrDuplicate.
func CreateCategory(ctx context.Context, db *sql.DB, n model.NewCategory) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, parent_id) VALUES (?, ?)`,
		strings.TrimSpace(n.Name), nullID(n.ParentID),
	)
	if err != nil {
		return nil, wrap("creating category", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

const categoryQuery = `
	SELECT c.id, c.name, c.parent_id, c.created_at, p.name,
	       (SELECT COUNT(*) FROM items i WHERE i.category_id = c.id)
	FROM categories c
	LEFT JOIN categories p ON p.id = c.parent_id`

func scanCategory(s rowScanner) (model.Category, error) {
	var c model.Category
	var parentID sql.NullInt64
	var parentName sql.NullString
	err := s.Scan(&c.ID, &c.Name, &parentID, &c.CreatedAt, &parentName, &c.ItemCount)
	c.ParentID = idPtr(parentID)
	c.ParentName = parentName.String
	return c, err
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c, err := scanCategory(db.QueryRowContext(ctx, categoryQuery+` WHERE c.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return &c, nil
}

// ListCategories returns all categories in Swedish alphabetical order.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx, categoryQuery)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortSwedish(categories, func(c model.Category) string { return c.Name })
	return categories, nil
}

// DeleteCategory removes a category. Fails with ErrInUse while any item or
// sub-category refers to it.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	var items, children int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM items WHERE category_id = ?),
		        (SELECT COUNT(*) FROM categories WHERE parent_id = ?)`, id, id,
	).Scan(&items, &children)
	if err != nil {
		return fmt.Errorf("checking category usage: %w", err)
	}
	if items > 0 {
		return fmt.Errorf("category has %d items: %w", items, ErrInUse)
	}
	if children > 0 {
		return fmt.Errorf("category has %d sub-categories: %w", children, ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return wrap("deleting category", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting category %d: %w", id, ErrNotFound)
	}
	return nil
}

// SeedCategories inserts the named categories unless they already exist and
// returns how many were added.
func SeedCategories(ctx context.Context, db *sql.DB, names []string) (int, error) {
	added := 0
	for _, name := range names {
		result, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name,
		)
		if err != nil {
			return added, fmt.Errorf("seeding category %q: %w", name, err)
		}
		n, _ := result.RowsAffected()
		added += int(n)
	}
	return added, nil
}
