package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/LennartSch/hembygdsmuseum/internal/db"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat := mustCategory(t, database, "Husgeråd")
	loc, err := CreateLocation(ctx, database, model.NewLocation{Building: "Magasin A", Shelf: "3"})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}

	item, err := CreateItem(ctx, database, model.NewItem{
		AccessionNumber: "2024.001",
		Name:            "Mjölkskål",
		Description:     "Blå glasyr",
		CategoryID:      &cat.ID,
		LocationID:      &loc.ID,
		Length:          decimal.NewNullDecimal(decimal.RequireFromString("24.5")),
		Weight:          decimal.NewNullDecimal(decimal.NewFromInt(850)),
		RegisteredBy:    "Karin",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Mjölkskål" {
		t.Errorf("expected name 'Mjölkskål', got %q", item.Name)
	}
	if item.Condition != model.ConditionGood {
		t.Errorf("expected default condition 'good', got %q", item.Condition)
	}
	if item.CategoryName != "Husgeråd" {
		t.Errorf("expected category 'Husgeråd', got %q", item.CategoryName)
	}
	if item.LocationLabel != "Magasin A / 3" {
		t.Errorf("expected location 'Magasin A / 3', got %q", item.LocationLabel)
	}
	if !item.Length.Valid || !item.Length.Decimal.Equal(decimal.RequireFromString("24.5")) {
		t.Errorf("expected length 24.5, got %v", item.Length)
	}
	if item.Width.Valid {
		t.Errorf("expected no width, got %v", item.Width)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := GetItemByAccession(ctx, database, "2024.001")
	if err != nil {
		t.Fatalf("GetItemByAccession: %v", err)
	}
	if got == nil || got.ID != item.ID {
		t.Errorf("expected item %d by accession, got %+v", item.ID, got)
	}

	missing, err := GetItem(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestDuplicateAccessionRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustItem(t, database, model.NewItem{AccessionNumber: "2024.001", Name: "Spinnrock"})

	_, err := CreateItem(ctx, database, model.NewItem{AccessionNumber: "2024.001", Name: "Vävstol"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	items, _ := ListItems(ctx, database)
	if len(items) != 1 {
		t.Fatalf("expected 1 item after rejected save, got %d", len(items))
	}
	if items[0].Name != "Spinnrock" {
		t.Errorf("existing item changed: %q", items[0].Name)
	}
}

func TestUnknownCategoryRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	bogus := int64(42)
	_, err := CreateItem(ctx, database, model.NewItem{AccessionNumber: "2024.001", Name: "Kista", CategoryID: &bogus})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestRegisterItemIsAtomic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donation := &model.NewDonation{DonorID: 999, AcquisitionType: model.AcquisitionGift}
	_, err := RegisterItem(ctx, database, model.NewItem{AccessionNumber: "2024.001", Name: "Kista"}, nil, donation)
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}

	items, _ := ListItems(ctx, database)
	if len(items) != 0 {
		t.Errorf("expected no item after failed registration, got %d", len(items))
	}
}

func TestRegisterItemWithPhotoAndDonation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	donor, err := CreateDonor(ctx, database, model.NewDonor{Name: "Anna Berg"})
	if err != nil {
		t.Fatalf("CreateDonor: %v", err)
	}

	item, err := RegisterItem(ctx, database,
		model.NewItem{AccessionNumber: "2024.001", Name: "Brudkrona"},
		&model.NewPhoto{Data: []byte("jpeg"), Mime: "image/jpeg", Width: 10, Height: 20},
		&model.NewDonation{DonorID: donor.ID, DonatedOn: "1987", AcquisitionType: model.AcquisitionBequest},
	)
	if err != nil {
		t.Fatalf("RegisterItem: %v", err)
	}

	photos, _ := ListItemPhotos(ctx, database, item.ID)
	if len(photos) != 1 {
		t.Fatalf("expected 1 photo, got %d", len(photos))
	}
	if photos[0].Size != 4 {
		t.Errorf("expected photo size 4, got %d", photos[0].Size)
	}

	donations, _ := ListItemDonations(ctx, database, item.ID)
	if len(donations) != 1 {
		t.Fatalf("expected 1 donation, got %d", len(donations))
	}
	if donations[0].DonorName != "Anna Berg" || donations[0].AcquisitionType != model.AcquisitionBequest {
		t.Errorf("unexpected donation %+v", donations[0])
	}
}

func TestSearchItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	textil := mustCategory(t, database, "Textil")
	mustItem(t, database, model.NewItem{AccessionNumber: "2023.001", Name: "Mjölkskål"})
	mustItem(t, database, model.NewItem{AccessionNumber: "2023.002", Name: "Duk", Description: "Broderad med MJÖLKVIT tråd", CategoryID: &textil.ID})
	mustItem(t, database, model.NewItem{AccessionNumber: "2024.001", Name: "Slända", CategoryID: &textil.ID})

	tests := []struct {
		name   string
		filter ItemFilter
		want   []string
	}{
		{"empty filter returns all", ItemFilter{}, []string{"2023.001", "2023.002", "2024.001"}},
		{"blank term returns all", ItemFilter{Term: "   "}, []string{"2023.001", "2023.002", "2024.001"}},
		{"case-insensitive non-ascii", ItemFilter{Term: "mjölk"}, []string{"2023.001", "2023.002"}},
		{"accession number", ItemFilter{Term: "2024."}, []string{"2024.001"}},
		{"category only", ItemFilter{CategoryID: textil.ID}, []string{"2023.002", "2024.001"}},
		{"term and category", ItemFilter{Term: "MJÖLK", CategoryID: textil.ID}, []string{"2023.002"}},
		{"no match", ItemFilter{Term: "harpa"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := SearchItems(ctx, database, tt.filter)
			if err != nil {
				t.Fatalf("SearchItems: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("expected %d items, got %d", len(tt.want), len(items))
			}
			for i, item := range items {
				if item.AccessionNumber != tt.want[i] {
					t.Errorf("result %d: expected %s, got %s", i, tt.want[i], item.AccessionNumber)
				}
			}
		})
	}
}

func TestSearchItemsStableOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 20; i++ {
		mustItem(t, database, model.NewItem{AccessionNumber: fmt.Sprintf("2024.%03d", 21-i), Name: "Tallrik"})
	}

	first, err := SearchItems(ctx, database, ItemFilter{Term: "tallrik"})
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	second, err := SearchItems(ctx, database, ItemFilter{Term: "tallrik"})
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if len(first) != 20 || len(second) != 20 {
		t.Fatalf("expected 20 results twice, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order differs at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
		if i > 0 && first[i].ID < first[i-1].ID {
			t.Errorf("expected insertion order, got id %d after %d", first[i].ID, first[i-1].ID)
		}
	}
}

func TestAccessionNumbersForYear(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustItem(t, database, model.NewItem{AccessionNumber: "2023.004", Name: "A"})
	mustItem(t, database, model.NewItem{AccessionNumber: "2024.001", Name: "B"})
	mustItem(t, database, model.NewItem{AccessionNumber: "2024.x", Name: "C"})
	mustItem(t, database, model.NewItem{AccessionNumber: "12024.001", Name: "D"})

	numbers, err := AccessionNumbersForYear(ctx, database, 2024)
	if err != nil {
		t.Fatalf("AccessionNumbersForYear: %v", err)
	}
	if len(numbers) != 2 {
		t.Fatalf("expected 2 numbers, got %v", numbers)
	}
}

func TestCountItemsAtLocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, model.NewLocation{Building: "Magasin B"})
	mustItem(t, database, model.NewItem{AccessionNumber: "2024.001", Name: "A", LocationID: &loc.ID})
	mustItem(t, database, model.NewItem{AccessionNumber: "2024.002", Name: "B", LocationID: &loc.ID})
	mustItem(t, database, model.NewItem{AccessionNumber: "2024.003", Name: "C"})

	n, err := CountItemsAtLocation(ctx, database, loc.ID)
	if err != nil {
		t.Fatalf("CountItemsAtLocation: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestMeasurementsKeepPrecision(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	exact := "12.345678901234567891"
	item := mustItem(t, database, model.NewItem{
		AccessionNumber: "2024.001",
		Name:            "Våg",
		Length:          decimal.NewNullDecimal(decimal.RequireFromString(exact)),
		Weight:          decimal.NewNullDecimal(decimal.RequireFromString("0.1")),
	})

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Length.Decimal.String() != exact {
		t.Errorf("expected length %s, got %s", exact, got.Length.Decimal.String())
	}
	if got.Weight.Decimal.String() != "0.1" {
		t.Errorf("expected weight 0.1, got %s", got.Weight.Decimal.String())
	}
}
