package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
	webembed "github.com/LennartSch/hembygdsmuseum/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

var swedishMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "nyss", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minut %s", DivBy: 1},
	{D: time.Hour, Format: "%d minuter %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 timme %s", DivBy: 1},
	{D: humanize.Day, Format: "%d timmar %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 dag %s", DivBy: 1},
	{D: humanize.Week, Format: "%d dagar %s", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "1 vecka %s", DivBy: 1},
	{D: humanize.Month, Format: "%d veckor %s", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "1 månad %s", DivBy: 1},
	{D: humanize.Year, Format: "%d månader %s", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "1 år %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d år %s", DivBy: humanize.Year},
}

// measure formats an optional measurement with a decimal comma.
func measure(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return strings.Replace(d.Decimal.String(), ".", ",", 1)
}

// dimensions formats length, width and height as "L × B × H cm".
func dimensions(item model.Item) string {
	values := []decimal.NullDecimal{item.Length, item.Width, item.Height}
	if !lo.SomeBy(values, func(d decimal.NullDecimal) bool { return d.Valid }) {
		return ""
	}
	parts := lo.Map(values, func(d decimal.NullDecimal, _ int) string {
		if !d.Valid {
			return "–"
		}
		return measure(d)
	})
	return strings.Join(parts, " × ") + " cm"
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"conditionLabel":   model.ConditionLabel,
		"acquisitionLabel": model.AcquisitionLabel,
		"conditions":       func() []string { return model.Conditions },
		"acquisitionTypes": func() []string { return model.AcquisitionTypes },
		"measure":          measure,
		"dimensions":       dimensions,
		"weight": func(d decimal.NullDecimal) string {
			if !d.Valid {
				return ""
			}
			return measure(d) + " g"
		},
		"bytes": func(n int64) string {
			if n < 0 {
				return ""
			}
			return humanize.Bytes(uint64(n))
		},
		"ago": func(t time.Time) string {
			return humanize.CustomRelTime(t, time.Now(), "sedan", "framåt", swedishMagnitudes)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
		"count": func(n int) string {
			return strings.ReplaceAll(humanize.Comma(int64(n)), ",", " ")
		},
		// idIs reports whether a form value holds the given id.
		"idIs": func(id int64, value string) bool {
			return value != "" && value == strconv.FormatInt(id, 10)
		},
		"derefID": func(id *int64) int64 {
			if id == nil {
				return 0
			}
			return *id
		},
		"percent": func(part, total int) string {
			if total == 0 {
				return "0 %"
			}
			return fmt.Sprintf("%.0f %%", float64(part)*100/float64(total))
		},
	}
}

// pages maps each page template to the layout it is rendered in.
var pages = map[string]string{
	"dashboard.html":        "layout.html",
	"register.html":         "layout.html",
	"items.html":            "layout.html",
	"item_detail.html":      "layout.html",
	"categories.html":       "layout.html",
	"locations.html":        "layout.html",
	"location_delete.html":  "layout.html",
	"donors.html":           "layout.html",
	"donor_detail.html":     "layout.html",
	"backups.html":          "layout.html",
	"error.html":            "layout.html",
	"print_item.html":       "print_layout.html",
	"print_items.html":      "print_layout.html",
	"print_stats.html":      "print_layout.html",
	"print_categories.html": "print_layout.html",
	"print_locations.html":  "print_layout.html",
	"print_donors.html":     "print_layout.html",
}

// LoadTemplates parses all page templates with their layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	ts := &Templates{templates: make(map[string]*template.Template)}

	for page, layout := range pages {
		layoutBytes, err := fs.ReadFile(tfs, layout)
		if err != nil {
			return nil, fmt.Errorf("reading layout template %s: %w", layout, err)
		}
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data and a 200 status.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Error   string
	Success string
	// Query is the current search term, shown in the header search box.
	Query string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	DBPath    string
	BackupDir string
	// Registrar pre-fills the "registered by" field.
	Registrar string
	Now       func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// page builds PageData with any pending flash message.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) PageData {
	pd := PageData{Title: title}
	pd.Success, pd.Error = popFlash(w, r)
	return pd
}

// serverError logs err and renders the generic failure page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error("failed to "+op, "path", r.URL.Path, "error", err)
	s.Templates.RenderStatus(w, http.StatusInternalServerError, "error.html", &struct {
		PageData
	}{
		PageData: PageData{
			Title: "Fel",
			Error: "Något gick fel när katalogen lästes eller skrevs. Om felet kvarstår, återställ den senaste säkerhetskopian.",
		},
	})
}
