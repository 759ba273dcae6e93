package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Location is a physical storage place: building, optionally room and shelf.
type Location struct {
	ID        int64     `json:"id"`
	Building  string    `json:"building"`
	Room      string    `json:"room,omitempty"`
	Shelf     string    `json:"shelf,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemCount int `json:"item_count"`
}

// Label joins the non-empty parts of the location, e.g. "Magasin A / Hylla 3".
func (l Location) Label() string {
	return LocationLabel(l.Building, l.Room, l.Shelf)
}

// LocationLabel joins the non-empty location parts with " / ".
func LocationLabel(building, room, shelf string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{building, room, shelf} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// NewLocation holds the values for adding a location.
type NewLocation struct {
	Building string `json:"building"`
	Room     string `json:"room"`
	Shelf    string `json:"shelf"`
	Notes    string `json:"notes"`
}

// Validate checks required fields.
func (n NewLocation) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Building, required("byggnad måste anges")...),
	)
}

// DefaultLocations are seeded into an empty catalogue.
var DefaultLocations = []NewLocation{
	{Building: "Huvudbyggnad", Room: "Utställningssal"},
	{Building: "Huvudbyggnad", Room: "Förråd"},
	{Building: "Magasin A"},
	{Building: "Magasin B"},
}
