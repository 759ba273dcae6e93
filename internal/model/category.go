package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Category is an entry in the controlled category vocabulary.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ParentName string `json:"parent_name,omitempty"`
	ItemCount  int    `json:"item_count"`
}

// NewCategory holds the values for adding a category.
type NewCategory struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// Validate checks required fields.
func (n NewCategory) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Name, append(required("namn måste anges"), validation.Length(0, 100))...),
	)
}

// DefaultCategories are seeded into an empty catalogue.
var DefaultCategories = []string{
	"Hushåll", "Jordbruk", "Textil", "Verktyg", "Möbler", "Dokumentation",
	"Konst", "Leksaker", "Kläder", "Husgeråd", "Hantverk", "Övrigt",
}
