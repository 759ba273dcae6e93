package web

import (
	"net/http"
	"time"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// printPage is the common data of printer-friendly pages.
type printPage struct {
	PageData
	Printed time.Time
}

func (s *Server) newPrintPage(title string) printPage {
	return printPage{PageData: PageData{Title: title}, Printed: s.now()}
}

// PrintItem handles GET /print/items/{id}.
func (s *Server) PrintItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "get item", err)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}
	photos, err := store.ListItemPhotos(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "list photos", err)
		return
	}
	donations, err := store.ListItemDonations(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "list donations", err)
		return
	}

	s.Templates.Render(w, "print_item.html", &struct {
		printPage
		Item      *model.Item
		Photos    []model.Photo
		Donations []model.Donation
	}{
		printPage: s.newPrintPage(item.AccessionNumber + " " + item.Name),
		Item:      item,
		Photos:    photos,
		Donations: donations,
	})
}

// PrintItems handles GET /print/items?q=&category=.
func (s *Server) PrintItems(w http.ResponseWriter, r *http.Request) {
	filter := itemFilter(r)
	items, err := store.SearchItems(r.Context(), s.DB, filter)
	if err != nil {
		s.serverError(w, r, "search items", err)
		return
	}

	var category *model.Category
	if filter.CategoryID != 0 {
		if category, err = store.GetCategory(r.Context(), s.DB, filter.CategoryID); err != nil {
			s.serverError(w, r, "get category", err)
			return
		}
	}

	page := s.newPrintPage("Föremålsförteckning")
	page.Query = filter.Term
	s.Templates.Render(w, "print_items.html", &struct {
		printPage
		Items    []model.Item
		Category *model.Category
	}{
		printPage: page,
		Items:     items,
		Category:  category,
	})
}

// PrintStats handles GET /print/stats.
func (s *Server) PrintStats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "compute statistics", err)
		return
	}

	s.Templates.Render(w, "print_stats.html", &struct {
		printPage
		Stats      *model.Stats
		Conditions []string
	}{
		printPage:  s.newPrintPage("Statistik"),
		Stats:      stats,
		Conditions: model.Conditions,
	})
}

// PrintCategories handles GET /print/categories.
func (s *Server) PrintCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list categories", err)
		return
	}

	s.Templates.Render(w, "print_categories.html", &struct {
		printPage
		Categories []model.Category
	}{
		printPage:  s.newPrintPage("Kategorier"),
		Categories: categories,
	})
}

// PrintLocations handles GET /print/locations.
func (s *Server) PrintLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := store.ListLocations(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list locations", err)
		return
	}

	s.Templates.Render(w, "print_locations.html", &struct {
		printPage
		Locations []model.Location
	}{
		printPage: s.newPrintPage("Platser"),
		Locations: locations,
	})
}

// PrintDonors handles GET /print/donors.
func (s *Server) PrintDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := store.ListDonors(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "list donors", err)
		return
	}

	s.Templates.Render(w, "print_donors.html", &struct {
		printPage
		Donors []model.Donor
	}{
		printPage: s.newPrintPage("Givare"),
		Donors:    donors,
	})
}
