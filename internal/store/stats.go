package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

// GetStats summarises the catalogue: totals, items per category, items per
// condition and the most recently registered items. Recent holds at most
// model.RecentLimit items, newest first; items registered in the same
// second are ordered by descending id, so the later insert comes first.
func GetStats(ctx context.Context, db *sql.DB) (*model.Stats, error) {
	stats := &model.Stats{
		ByCategory:  []model.CategoryCount{},
		ByCondition: make(map[string]int, len(model.Conditions)),
		Recent:      []model.Item{},
	}
	for _, c := range model.Conditions {
		stats.ByCondition[c] = 0
	}

	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM items),
		        (SELECT COUNT(*) FROM items WHERE category_id IS NULL),
		        (SELECT COUNT(*) FROM categories),
		        (SELECT COUNT(*) FROM locations),
		        (SELECT COUNT(*) FROM donors),
		        (SELECT COUNT(*) FROM photos)`,
	).Scan(&stats.Total, &stats.Uncategorized, &stats.Categories, &stats.Locations, &stats.Donors, &stats.Photos)
	if err != nil {
		return nil, fmt.Errorf("counting catalogue: %w", err)
	}

	if stats.ByCategory, err = countByCategory(ctx, db); err != nil {
		return nil, err
	}

	if err := countByCondition(ctx, db, stats.ByCondition); err != nil {
		return nil, err
	}

	recent, err := queryItems(ctx, db,
		selectItems().OrderBy("i.created_at DESC", "i.id DESC").Limit(model.RecentLimit))
	if err != nil {
		return nil, fmt.Errorf("listing recent items: %w", err)
	}
	if recent != nil {
		stats.Recent = recent
	}

	return stats, nil
}

func countByCategory(ctx context.Context, db *sql.DB) ([]model.CategoryCount, error) {
	query, args, err := psql.Select("c.id", "c.name", "COUNT(i.id) AS n").
		From("categories c").
		Join("items i ON i.category_id = c.id").
		GroupBy("c.id", "c.name").
		OrderBy("n DESC", "c.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building category count query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting items per category: %w", err)
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func countByCondition(ctx context.Context, db *sql.DB, into map[string]int) error {
	rows, err := db.QueryContext(ctx, `SELECT condition, COUNT(*) FROM items GROUP BY condition`)
	if err != nil {
		return fmt.Errorf("counting items per condition: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var condition string
		var n int
		if err := rows.Scan(&condition, &n); err != nil {
			return fmt.Errorf("scanning condition count: %w", err)
		}
		into[condition] = n
	}
	return rows.Err()
}
