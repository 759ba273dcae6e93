package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/LennartSch/hembygdsmuseum/internal/model"
)

func TestWriteItems(t *testing.T) {
	require.NoError(t, gofakeit.Seed(3))

	items := []model.Item{
		{
			AccessionNumber: "2024.001",
			Name:            "Mjölkskål",
			Description:     gofakeit.Sentence(6),
			CategoryName:    "Husgeråd",
			Length:          decimal.NewNullDecimal(decimal.RequireFromString("24.5")),
			Condition:       model.ConditionPoor,
			LocationLabel:   "Magasin A / 3",
			CreatedAt:       time.Date(2024, time.February, 3, 12, 0, 0, 0, time.Local),
		},
		{
			AccessionNumber: "2024.002",
			Name:            gofakeit.ProductName(),
			Condition:       model.ConditionGood,
			CreatedAt:       time.Now(),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])

	first := rows[1]
	assert.Equal(t, "2024.001", first[0])
	assert.Equal(t, "Mjölkskål", first[1])
	assert.Equal(t, "Husgeråd", first[3])
	assert.Equal(t, "24.5", first[8])
	assert.Equal(t, "", first[9])
	assert.Equal(t, "Dåligt", first[12])
	assert.Equal(t, "Magasin A / 3", first[13])
	assert.Equal(t, "2024-02-03 12:00", first[15])

	assert.Equal(t, items[1].Name, rows[2][1])
}

func TestWriteItemsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Columns, rows[0])
}
