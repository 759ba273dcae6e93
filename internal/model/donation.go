package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Donation links an item to the donor it was acquired from.
type Donation struct {
	ID              int64     `json:"id"`
	ItemID          int64     `json:"item_id"`
	DonorID         int64     `json:"donor_id"`
	DonatedOn       string    `json:"donated_on,omitempty"`
	AcquisitionType string    `json:"acquisition_type"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	// Joined fields (not always populated).
	DonorName       string `json:"donor_name,omitempty"`
	ItemName        string `json:"item_name,omitempty"`
	AccessionNumber string `json:"accession_number,omitempty"`
}

// Acquisition types.
const (
	AcquisitionGift     = "gift"
	AcquisitionPurchase = "purchase"
	AcquisitionLoan     = "loan"
	AcquisitionBequest  = "bequest"
	AcquisitionOther    = "other"
)

// AcquisitionTypes lists the valid acquisition types.
var AcquisitionTypes = []string{
	AcquisitionGift, AcquisitionPurchase, AcquisitionLoan, AcquisitionBequest, AcquisitionOther,
}

// AcquisitionLabel returns the Swedish display label for an acquisition type.
func AcquisitionLabel(a string) string {
	switch a {
	case AcquisitionGift:
		return "Gåva"
	case AcquisitionPurchase:
		return "Köp"
	case AcquisitionLoan:
		return "Lån"
	case AcquisitionBequest:
		return "Testamente"
	case AcquisitionOther:
		return "Övrigt"
	default:
		return a
	}
}

// NewDonation holds the values for recording a donation.
type NewDonation struct {
	ItemID          int64  `json:"item_id"`
	DonorID         int64  `json:"donor_id"`
	DonatedOn       string `json:"donated_on"`
	AcquisitionType string `json:"acquisition_type"`
	Notes           string `json:"notes"`
}

// Validate checks required fields.
func (n NewDonation) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.DonorID, validation.Required.Error("givare måste väljas")),
		validation.Field(&n.AcquisitionType, validation.In(
			AcquisitionGift, AcquisitionPurchase, AcquisitionLoan, AcquisitionBequest, AcquisitionOther,
		).Error("okänt förvärvssätt")),
	)
}
