package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Item is one catalogued artifact.
type Item struct {
	ID              int64               `json:"id"`
	AccessionNumber string              `json:"accession_number"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	CategoryID      *int64              `json:"category_id,omitempty"`
	Material        string              `json:"material,omitempty"`
	ProductionYear  string              `json:"production_year,omitempty"`
	ProductionPlace string              `json:"production_place,omitempty"`
	Maker           string              `json:"maker,omitempty"`
	Length          decimal.NullDecimal `json:"length"`
	Width           decimal.NullDecimal `json:"width"`
	Height          decimal.NullDecimal `json:"height"`
	Weight          decimal.NullDecimal `json:"weight"`
	Condition       string              `json:"condition"`
	LocationID      *int64              `json:"location_id,omitempty"`
	RegisteredBy    string              `json:"registered_by,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`

	// Joined fields (not always populated).
	CategoryName  string `json:"category_name,omitempty"`
	LocationLabel string `json:"location,omitempty"`
}

// Item conditions.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionPoor      = "poor"
)

// Conditions lists the valid item conditions, best first.
var Conditions = []string{ConditionExcellent, ConditionGood, ConditionPoor}

// ConditionLabel returns the Swedish display label for a condition.
func ConditionLabel(c string) string {
	switch c {
	case ConditionExcellent:
		return "Utmärkt"
	case ConditionGood:
		return "Gott"
	case ConditionPoor:
		return "Dåligt"
	default:
		return c
	}
}

// NewItem holds the values entered when registering an item.
type NewItem struct {
	AccessionNumber string              `json:"accession_number"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	CategoryID      *int64              `json:"category_id"`
	Material        string              `json:"material"`
	ProductionYear  string              `json:"production_year"`
	ProductionPlace string              `json:"production_place"`
	Maker           string              `json:"maker"`
	Length          decimal.NullDecimal `json:"length"`
	Width           decimal.NullDecimal `json:"width"`
	Height          decimal.NullDecimal `json:"height"`
	Weight          decimal.NullDecimal `json:"weight"`
	Condition       string              `json:"condition"`
	LocationID      *int64              `json:"location_id"`
	RegisteredBy    string              `json:"registered_by"`
}

// Validate checks required fields and value sanity.
func (n NewItem) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.AccessionNumber, required("accessionsnummer måste anges")...),
		validation.Field(&n.Name, required("benämning måste anges")...),
		validation.Field(&n.Condition, validation.In(ConditionExcellent, ConditionGood, ConditionPoor).Error("okänt skick")),
		validation.Field(&n.Length, validation.By(nonNegative)),
		validation.Field(&n.Width, validation.By(nonNegative)),
		validation.Field(&n.Height, validation.By(nonNegative)),
		validation.Field(&n.Weight, validation.By(nonNegative)),
	)
}

func nonNegative(value interface{}) error {
	d, ok := value.(decimal.NullDecimal)
	if !ok || !d.Valid {
		return nil
	}
	if d.Decimal.IsNegative() {
		return errors.New("får inte vara negativt")
	}
	return nil
}
