// Package export writes catalogue items to spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

// SheetName is the worksheet holding the items.
const SheetName = "Föremål"

// Columns are the header labels, in column order.
var Columns = []string{
	"Accessionsnummer", "Benämning", "Beskrivning", "Kategori", "Material",
	"Tillverkningsår", "Tillverkningsort", "Tillverkare",
	"Längd (cm)", "Bredd (cm)", "Höjd (cm)", "Vikt (g)",
	"Skick", "Placering", "Registrerad av", "Registrerad",
}

var columnWidths = []float64{16, 28, 48, 16, 16, 14, 18, 20, 10, 10, 10, 10, 10, 28, 18, 18}

func row(item model.Item) []any {
	return []any{
		item.AccessionNumber, item.Name, item.Description, item.CategoryName, item.Material,
		item.ProductionYear, item.ProductionPlace, item.Maker,
		number(item.Length), number(item.Width), number(item.Height), number(item.Weight),
		model.ConditionLabel(item.Condition), item.LocationLabel, item.RegisteredBy,
		item.CreatedAt.Local().Format("2006-01-02 15:04"),
	}
}

func number(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return f
}

// WriteItems writes items as an XLSX workbook to w.
func WriteItems(w io.Writer, items []model.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := lo.Map(Columns, func(c string, _ int) any { return c })
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("naming column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		values := row(item)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing item %s: %w", item.AccessionNumber, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
