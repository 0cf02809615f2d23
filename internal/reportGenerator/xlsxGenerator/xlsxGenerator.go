package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DKret94/portfolio_webapp/internal/model"
	"github.com/DKret94/portfolio_webapp/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Portfolios"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders the portfolio listing as a single-sheet workbook.
func (g *XLSXGenerator) Generate(ctx context.Context, portfolios []model.Portfolio) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", closeErr.Error()))
		}
	}()

	if _, err = f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Portfolio ID", "Investor ID", "Total Value", "Creation Date"}
	for i, header := range headers {
		cell, cellErr := excelize.CoordinatesToCellName(i+1, 1)
		if cellErr != nil {
			return nil, "", cellErr
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, portfolio := range portfolios {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), portfolio.PortfolioID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), portfolio.InvestorID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), portfolio.TotalValue.String())
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), portfolio.CreationDate.Format("2006-01-02"))
	}

	if err = f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}
