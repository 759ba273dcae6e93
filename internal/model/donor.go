package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Donor is a person or organisation that has given items to the museum.
type Donor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	DonationCount int `json:"donation_count"`
}

// NewDonor holds the values for adding a donor.
type NewDonor struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
}

// Validate checks required fields and the e-mail shape.
func (n NewDonor) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Name, required("namn måste anges")...),
		validation.Field(&n.Email, is.Email.Error("ogiltig e-postadress")),
	)
}
