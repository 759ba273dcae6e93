// Package accession formats, parses and suggests accession numbers of the
// form "YYYY.NNN": the registration year followed by a running number.
package accession

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

// Format returns the accession number for a year and sequence number.
// Sequences above 999 widen instead of wrapping.
func Format(year, seq int) string {
	return fmt.Sprintf("%d.%03d", year, seq)
}

// Parse splits an accession number into year and sequence. Only digits are
// accepted on both sides of the dot.
func Parse(s string) (year, seq int, ok bool) {
	y, n, found := strings.Cut(s, ".")
	if !found || !digits(y) || !digits(n) {
		return 0, 0, false
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(n)
	if err != nil {
		return 0, 0, false
	}
	return year, seq, true
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NextFrom returns the number following the highest sequence for year among
// existing. Numbers of other years and non-numeric suffixes are ignored.
func NextFrom(year int, existing []string) string {
	highest := 0
	for _, s := range existing {
		y, seq, ok := Parse(s)
		if !ok || y != year {
			continue
		}
		highest = max(highest, seq)
	}
	return Format(year, highest+1)
}

// Next suggests the next accession number for year. It does not reserve
// the number; uniqueness is checked when the item is saved.
func Next(ctx context.Context, db *sql.DB, year int) (string, error) {
	existing, err := store.AccessionNumbersForYear(ctx, db, year)
	if err != nil {
		return "", fmt.Errorf("suggesting accession number: %w", err)
	}
	return NextFrom(year, existing), nil
}

// NextNow suggests the next accession number for the year of now.
func NextNow(ctx context.Context, db *sql.DB, now time.Time) (string, error) {
	return Next(ctx, db, now.Year())
}
