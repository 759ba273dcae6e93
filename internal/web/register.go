package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/LennartSch/hembygdsmuseum/internal/accession"
	"github.com/LennartSch/hembygdsmuseum/internal/imaging"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// registrationForm is the view-state of the registration page. Values are
// kept as entered so a rejected form can be shown again unchanged.
type registrationForm struct {
	AccessionNumber string
	Name            string
	Description     string
	CategoryID      string
	Material        string
	ProductionYear  string
	ProductionPlace string
	Maker           string
	Length          string
	Width           string
	Height          string
	Weight          string
	Condition       string
	LocationID      string
	RegisteredBy    string

	DonorID         string
	DonatedOn       string
	AcquisitionType string
	DonationNotes   string

	PhotoDescription string
	Photographer     string

	// Errors maps a field name to its message.
	Errors map[string]string
}

// newRegistrationForm returns an empty form pre-filled with the suggested
// accession number.
func newRegistrationForm(next, registrar string) *registrationForm {
	return &registrationForm{
		AccessionNumber: next,
		Condition:       model.ConditionGood,
		AcquisitionType: model.AcquisitionGift,
		RegisteredBy:    registrar,
		Errors:          map[string]string{},
	}
}

func formFromRequest(r *http.Request) *registrationForm {
	v := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }
	return &registrationForm{
		AccessionNumber:  v("accession_number"),
		Name:             v("name"),
		Description:      v("description"),
		CategoryID:       v("category_id"),
		Material:         v("material"),
		ProductionYear:   v("production_year"),
		ProductionPlace:  v("production_place"),
		Maker:            v("maker"),
		Length:           v("length"),
		Width:            v("width"),
		Height:           v("height"),
		Weight:           v("weight"),
		Condition:        v("condition"),
		LocationID:       v("location_id"),
		RegisteredBy:     v("registered_by"),
		DonorID:          v("donor_id"),
		DonatedOn:        v("donated_on"),
		AcquisitionType:  v("acquisition_type"),
		DonationNotes:    v("donation_notes"),
		PhotoDescription: v("photo_description"),
		Photographer:     v("photographer"),
		Errors:           map[string]string{},
	}
}

// parseDecimal accepts both decimal comma and point. Empty means unset.
func parseDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// parseOptionalID reads a select value; empty or zero means none.
func parseOptionalID(s string) (*int64, error) {
	if s == "" || s == "0" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// item converts the form to a NewItem, recording parse failures in Errors.
func (f *registrationForm) item() model.NewItem {
	n := model.NewItem{
		AccessionNumber: f.AccessionNumber,
		Name:            f.Name,
		Description:     f.Description,
		Material:        f.Material,
		ProductionYear:  f.ProductionYear,
		ProductionPlace: f.ProductionPlace,
		Maker:           f.Maker,
		Condition:       f.Condition,
		RegisteredBy:    f.RegisteredBy,
	}

	measurements := []struct {
		field string
		value string
		into  *decimal.NullDecimal
	}{
		{"length", f.Length, &n.Length},
		{"width", f.Width, &n.Width},
		{"height", f.Height, &n.Height},
		{"weight", f.Weight, &n.Weight},
	}
	for _, m := range measurements {
		d, err := parseDecimal(m.value)
		if err != nil {
			f.Errors[m.field] = "måste vara ett tal"
			continue
		}
		*m.into = d
	}

	var err error
	if n.CategoryID, err = parseOptionalID(f.CategoryID); err != nil {
		f.Errors["category_id"] = "okänd kategori"
	}
	if n.LocationID, err = parseOptionalID(f.LocationID); err != nil {
		f.Errors["location_id"] = "okänd plats"
	}
	return n
}

// donation returns the optional donation, or nil when no donor was chosen.
func (f *registrationForm) donation() *model.NewDonation {
	id, err := parseOptionalID(f.DonorID)
	if err != nil {
		f.Errors["donor_id"] = "okänd givare"
		return nil
	}
	if id == nil {
		return nil
	}
	return &model.NewDonation{
		DonorID:         *id,
		DonatedOn:       f.DonatedOn,
		AcquisitionType: f.AcquisitionType,
		Notes:           f.DonationNotes,
	}
}

// addErrors copies ozzo-validation field errors into the form.
func (f *registrationForm) addErrors(err error) bool {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	for field, e := range verrs {
		if _, ok := f.Errors[field]; !ok {
			f.Errors[field] = e.Error()
		}
	}
	return true
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	next, err := accession.NextNow(r.Context(), s.DB, s.now())
	if err != nil {
		s.serverError(w, r, "suggest accession number", err)
		return
	}
	s.renderRegister(w, r, http.StatusOK, s.page(w, r, "Registrera föremål"), newRegistrationForm(next, s.Registrar), next)
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := formFromRequest(r)
	n := form.item()
	donation := form.donation()

	form.addErrors(n.Validate())
	if donation != nil {
		form.addErrors(donation.Validate())
	}

	var photo *model.NewPhoto
	processed, err := readPhoto(r)
	if err != nil {
		form.Errors["photo"] = photoMessage(err)
	} else if processed != nil {
		photo = &model.NewPhoto{
			Data:         processed.Data,
			Mime:         processed.MIME,
			Width:        processed.Width,
			Height:       processed.Height,
			Description:  form.PhotoDescription,
			Photographer: form.Photographer,
		}
	}

	if len(form.Errors) > 0 {
		s.rejectRegistration(w, r, form, "Formuläret innehåller fel. Rätta de markerade fälten.")
		return
	}

	item, err := store.RegisterItem(r.Context(), s.DB, n, photo, donation)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		form.Errors["accession_number"] = "finns redan"
		s.rejectRegistration(w, r, form, fmt.Sprintf("Accessionsnumret %s är redan registrerat.", n.AccessionNumber))
		return
	case errors.Is(err, store.ErrInvalidReference):
		s.rejectRegistration(w, r, form, "Vald kategori, plats eller givare finns inte längre.")
		return
	case err != nil:
		s.serverError(w, r, "register item", err)
		return
	}

	slog.Info("item registered", "id", item.ID, "accession_number", item.AccessionNumber,
		"photo", photo != nil, "donation", donation != nil)
	redirect(w, r, "/register", flashSuccess,
		fmt.Sprintf("%s %s har registrerats.", item.AccessionNumber, item.Name))
}

// rejectRegistration shows the form again with the entered values.
func (s *Server) rejectRegistration(w http.ResponseWriter, r *http.Request, form *registrationForm, message string) {
	next, err := accession.NextNow(r.Context(), s.DB, s.now())
	if err != nil {
		s.serverError(w, r, "suggest accession number", err)
		return
	}
	pd := PageData{Title: "Registrera föremål", Error: message}
	s.renderRegister(w, r, http.StatusUnprocessableEntity, pd, form, next)
}

func (s *Server) renderRegister(w http.ResponseWriter, r *http.Request, status int, pd PageData, form *registrationForm, suggested string) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list categories", err)
		return
	}
	locations, err := store.ListLocations(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list locations", err)
		return
	}
	donors, err := store.ListDonors(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list donors", err)
		return
	}

	s.Templates.RenderStatus(w, status, "register.html", &struct {
		PageData
		Form       *registrationForm
		Suggested  string
		Categories []model.Category
		Locations  []model.Location
		Donors     []model.Donor
	}{
		PageData:   pd,
		Form:       form,
		Suggested:  suggested,
		Categories: categories,
		Locations:  locations,
		Donors:     donors,
	})
}
