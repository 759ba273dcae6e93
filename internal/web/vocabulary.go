package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// validationMessage turns ozzo-validation errors into one sentence.
func validationMessage(err error) string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	messages := lo.MapToSlice(verrs, func(_ string, e error) string { return e.Error() })
	slices.Sort(messages)
	msg := strings.Join(messages, ", ")
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:] + "."
}

// CategoriesPage handles GET /categories.
func (s *Server) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list categories", err)
		return
	}

	s.Templates.Render(w, "categories.html", &struct {
		PageData
		Categories []model.Category
	}{
		PageData:   s.page(w, r, "Kategorier"),
		Categories: categories,
	})
}

// CategoryCreateSubmit handles POST /categories.
func (s *Server) CategoryCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	parentID, err := parseOptionalID(r.FormValue("parent_id"))
	if err != nil {
		redirect(w, r, "/categories", flashError, "Okänd överordnad kategori.")
		return
	}
	n := model.NewCategory{Name: strings.TrimSpace(r.FormValue("name")), ParentID: parentID}
	if err := n.Validate(); err != nil {
		redirect(w, r, "/categories", flashError, validationMessage(err))
		return
	}

	category, err := store.CreateCategory(r.Context(), s.DB, n)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		redirect(w, r, "/categories", flashError, fmt.Sprintf("Kategorin %q finns redan.", n.Name))
		return
	case errors.Is(err, store.ErrInvalidReference):
		redirect(w, r, "/categories", flashError, "Den överordnade kategorin finns inte längre.")
		return
	case err != nil:
		s.serverError(w, r, "create category", err)
		return
	}

	slog.Info("category created", "id", category.ID, "name", category.Name)
	redirect(w, r, "/categories", flashSuccess, fmt.Sprintf("Kategorin %q har lagts till.", category.Name))
}

// CategoryDeleteSubmit handles POST /categories/{id}/delete.
func (s *Server) CategoryDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := store.DeleteCategory(r.Context(), s.DB, id)
	switch {
	case errors.Is(err, store.ErrInUse):
		redirect(w, r, "/categories", flashError,
			"Kategorin används av föremål eller underkategorier och kan inte tas bort.")
		return
	case errors.Is(err, store.ErrNotFound):
		redirect(w, r, "/categories", flashError, "Kategorin finns inte.")
		return
	case err != nil:
		s.serverError(w, r, "delete category", err)
		return
	}

	slog.Info("category deleted", "id", id)
	redirect(w, r, "/categories", flashSuccess, "Kategorin har tagits bort.")
}

// LocationsPage handles GET /locations.
func (s *Server) LocationsPage(w http.ResponseWriter, r *http.Request) {
	locations, err := store.ListLocations(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list locations", err)
		return
	}

	s.Templates.Render(w, "locations.html", &struct {
		PageData
		Locations []model.Location
	}{
		PageData:  s.page(w, r, "Platser"),
		Locations: locations,
	})
}

// LocationCreateSubmit handles POST /locations.
func (s *Server) LocationCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	n := model.NewLocation{
		Building: strings.TrimSpace(r.FormValue("building")),
		Room:     strings.TrimSpace(r.FormValue("room")),
		Shelf:    strings.TrimSpace(r.FormValue("shelf")),
		Notes:    strings.TrimSpace(r.FormValue("notes")),
	}
	if err := n.Validate(); err != nil {
		redirect(w, r, "/locations", flashError, validationMessage(err))
		return
	}

	location, err := store.CreateLocation(r.Context(), s.DB, n)
	if errors.Is(err, store.ErrDuplicate) {
		redirect(w, r, "/locations", flashError,
			fmt.Sprintf("Platsen %s finns redan.", model.LocationLabel(n.Building, n.Room, n.Shelf)))
		return
	}
	if err != nil {
		s.serverError(w, r, "create location", err)
		return
	}

	slog.Info("location created", "id", location.ID, "location", location.Label())
	redirect(w, r, "/locations", flashSuccess, fmt.Sprintf("Platsen %s har lagts till.", location.Label()))
}

// LocationDeletePage handles GET /locations/{id}/delete. It shows how many
// items would become unplaced before asking for confirmation.
func (s *Server) LocationDeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	location, err := store.GetLocation(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "get location", err)
		return
	}
	if location == nil {
		http.NotFound(w, r)
		return
	}
	affected, err := store.CountItemsAtLocation(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "count items at location", err)
		return
	}

	s.Templates.Render(w, "location_delete.html", &struct {
		PageData
		Location *model.Location
		Affected int
	}{
		PageData: s.page(w, r, "Ta bort plats"),
		Location: location,
		Affected: affected,
	})
}

// LocationDeleteSubmit handles POST /locations/{id}/delete.
func (s *Server) LocationDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	detached, err := store.DeleteLocation(r.Context(), s.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		redirect(w, r, "/locations", flashError, "Platsen finns inte.")
		return
	}
	if err != nil {
		s.serverError(w, r, "delete location", err)
		return
	}

	slog.Info("location deleted", "id", id, "detached_items", detached)
	msg := "Platsen har tagits bort."
	if detached > 0 {
		msg = fmt.Sprintf("Platsen har tagits bort. %d föremål saknar nu plats.", detached)
	}
	redirect(w, r, "/locations", flashSuccess, msg)
}

// DonorsPage handles GET /donors.
func (s *Server) DonorsPage(w http.ResponseWriter, r *http.Request) {
	donors, err := store.ListDonors(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list donors", err)
		return
	}

	s.Templates.Render(w, "donors.html", &struct {
		PageData
		Donors []model.Donor
	}{
		PageData: s.page(w, r, "Givare"),
		Donors:   donors,
	})
}

// DonorDetailPage handles GET /donors/{id}.
func (s *Server) DonorDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	donor, err := store.GetDonor(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "get donor", err)
		return
	}
	if donor == nil {
		http.NotFound(w, r)
		return
	}
	donations, err := store.ListDonorDonations(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "list donations", err)
		return
	}

	s.Templates.Render(w, "donor_detail.html", &struct {
		PageData
		Donor     *model.Donor
		Donations []model.Donation
	}{
		PageData:  s.page(w, r, donor.Name),
		Donor:     donor,
		Donations: donations,
	})
}

// DonorCreateSubmit handles POST /donors.
func (s *Server) DonorCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	n := model.NewDonor{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Address: strings.TrimSpace(r.FormValue("address")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Notes:   strings.TrimSpace(r.FormValue("notes")),
	}
	if err := n.Validate(); err != nil {
		redirect(w, r, "/donors", flashError, validationMessage(err))
		return
	}

	donor, err := store.CreateDonor(r.Context(), s.DB, n)
	if errors.Is(err, store.ErrDuplicate) {
		redirect(w, r, "/donors", flashError, fmt.Sprintf("Givaren %q finns redan.", n.Name))
		return
	}
	if err != nil {
		s.serverError(w, r, "create donor", err)
		return
	}

	slog.Info("donor created", "id", donor.ID)
	redirect(w, r, "/donors", flashSuccess, fmt.Sprintf("Givaren %q har lagts till.", donor.Name))
}

// DonorDeleteSubmit handles POST /donors/{id}/delete.
func (s *Server) DonorDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := store.DeleteDonor(r.Context(), s.DB, id)
	switch {
	case errors.Is(err, store.ErrInUse):
		redirect(w, r, fmt.Sprintf("/donors/%d", id), flashError,
			"Givaren är kopplad till föremål och kan inte tas bort.")
		return
	case errors.Is(err, store.ErrNotFound):
		redirect(w, r, "/donors", flashError, "Givaren finns inte.")
		return
	case err != nil:
		s.serverError(w, r, "delete donor", err)
		return
	}

	slog.Info("donor deleted", "id", id)
	redirect(w, r, "/donors", flashSuccess, "Givaren har tagits bort.")
}
