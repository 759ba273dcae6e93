package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

// ItemFilter narrows a catalogue search. The zero value matches every item.
type ItemFilter struct {
	// Term is matched case-insensitively as a substring of the name,
	// description or accession number.
	Term string
	// CategoryID restricts results to one category when non-zero.
	CategoryID int64
}

var itemColumns = []string{
	"i.id", "i.accession_number", "i.name", "i.description", "i.category_id",
	"i.material", "i.production_year", "i.production_place", "i.maker",
	"i.length", "i.width", "i.height", "i.weight", "i.condition",
	"i.location_id", "i.registered_by", "i.created_at",
	"c.name", "l.building", "l.room", "l.shelf",
}

func selectItems() sq.SelectBuilder {
	return psql.Select(itemColumns...).
		From("items i").
		LeftJoin("categories c ON c.id = i.category_id").
		LeftJoin("locations l ON l.id = i.location_id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (model.Item, error) {
	var item model.Item
	var description, material, year, place, maker, registeredBy sql.NullString
	var categoryName, building, room, shelf sql.NullString
	var categoryID, locationID sql.NullInt64
	err := s.Scan(&item.ID, &item.AccessionNumber, &item.Name, &description, &categoryID,
		&material, &year, &place, &maker,
		&item.Length, &item.Width, &item.Height, &item.Weight, &item.Condition,
		&locationID, &registeredBy, &item.CreatedAt,
		&categoryName, &building, &room, &shelf)
	if err != nil {
		return item, err
	}
	item.Description = description.String
	item.CategoryID = idPtr(categoryID)
	item.Material = material.String
	item.ProductionYear = year.String
	item.ProductionPlace = place.String
	item.Maker = maker.String
	item.LocationID = idPtr(locationID)
	item.RegisteredBy = registeredBy.String
	item.CategoryName = categoryName.String
	if building.Valid {
		item.LocationLabel = model.LocationLabel(building.String, room.String, shelf.String)
	}
	return item, nil
}

func queryItems(ctx context.Context, q querier, b sq.SelectBuilder) ([]model.Item, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func getItemWhere(ctx context.Context, db *sql.DB, pred any) (*model.Item, error) {
	query, args, err := selectItems().Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}
	item, err := scanItem(db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return &item, nil
}

// measurement stores a decimal as exact text; NullDecimal scans it back.
func measurement(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func insertItem(ctx context.Context, q querier, n model.NewItem) (int64, error) {
	condition := n.Condition
	if condition == "" {
		condition = model.ConditionGood
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO items (accession_number, name, description, category_id, material,
		     production_year, production_place, maker, length, width, height, weight,
		     condition, location_id, registered_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(n.AccessionNumber), strings.TrimSpace(n.Name), n.Description,
		nullID(n.CategoryID), n.Material, n.ProductionYear, n.ProductionPlace, n.Maker,
		measurement(n.Length), measurement(n.Width), measurement(n.Height), measurement(n.Weight),
		condition, nullID(n.LocationID), n.RegisteredBy,
	)
	if err != nil {
		return 0, wrap("creating item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}
	return id, nil
}

// CreateItem registers a new item. A taken accession number fails with
// ErrDuplicate and nothing is written.
func CreateItem(ctx context.Context, db *sql.DB, n model.NewItem) (*model.Item, error) {
	return RegisterItem(ctx, db, n, nil, nil)
}

// RegisterItem creates an item together with an optional first photo and
// an optional donation record, all in one transaction.
func RegisterItem(ctx context.Context, db *sql.DB, n model.NewItem, photo *model.NewPhoto, donation *model.NewDonation) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertItem(ctx, tx, n)
	if err != nil {
		return nil, err
	}

	if photo != nil {
		p := *photo
		p.ItemID = id
		if _, err := insertPhoto(ctx, tx, p); err != nil {
			return nil, err
		}
	}

	if donation != nil {
		d := *donation
		d.ItemID = id
		if _, err := insertDonation(ctx, tx, d); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItemWhere(ctx, db, sq.Eq{"i.id": id})
}

// GetItemByAccession returns the item with the given accession number.
func GetItemByAccession(ctx context.Context, db *sql.DB, accession string) (*model.Item, error) {
	return getItemWhere(ctx, db, sq.Eq{"i.accession_number": strings.TrimSpace(accession)})
}

// ListItems returns every item in registration order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return SearchItems(ctx, db, ItemFilter{})
}

// SearchItems returns the items matching f in registration order.
func SearchItems(ctx context.Context, db *sql.DB, f ItemFilter) ([]model.Item, error) {
	b := selectItems().OrderBy("i.id")

	if term := strings.TrimSpace(f.Term); term != "" {
		b = b.Where(sq.Or{
			sq.Expr("instr(casefold(i.name), casefold(?)) > 0", term),
			sq.Expr("instr(casefold(i.description), casefold(?)) > 0", term),
			sq.Expr("instr(casefold(i.accession_number), casefold(?)) > 0", term),
		})
	}
	if f.CategoryID != 0 {
		b = b.Where(sq.Eq{"i.category_id": f.CategoryID})
	}

	items, err := queryItems(ctx, db, b)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	return items, nil
}

// CountItemsAtLocation returns how many items are stored at a location.
func CountItemsAtLocation(ctx context.Context, db *sql.DB, locationID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE location_id = ?`, locationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items at location: %w", err)
	}
	return count, nil
}

// AccessionNumbersForYear returns every accession number starting with "YYYY.".
func AccessionNumbersForYear(ctx context.Context, db *sql.DB, year int) ([]string, error) {
	prefix := fmt.Sprintf("%d.", year)
	rows, err := db.QueryContext(ctx,
		`SELECT accession_number FROM items
		 WHERE substr(accession_number, 1, length(?)) = ?`, prefix, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("listing accession numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning accession number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}
