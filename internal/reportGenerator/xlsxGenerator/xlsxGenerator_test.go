package xlsxGenerator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/DKret94/portfolio_webapp/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerate(t *testing.T) {
	g := New()

	fileBytes, ext, err := g.Generate(context.Background(), []model.Portfolio{
		{
			PortfolioID:  "PORT001",
			InvestorID:   "INV001",
			TotalValue:   decimal.RequireFromString("1500.00"),
			CreationDate: time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, ".xlsx", ext)

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "PORT001", id)

	total, err := f.GetCellValue(sheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "1500.00", total)

	date, err := f.GetCellValue(sheetName, "D2")
	require.NoError(t, err)
	assert.Equal(t, "2024-11-04", date)
}
