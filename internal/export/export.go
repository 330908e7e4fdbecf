// Package export renders the quote list as an Excel workbook, the format the
// sales team attaches to customer emails.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/natfilters/natpricing/internal/quotes"
)

const sheetName = "Quotes"

var headers = []string{
	"Date", "Calculator", "Product", "Description",
	"Part Number", "Unit Price", "Carton Qty", "Carton Price", "Notes",
}

// QuoteWorkbook builds an XLSX workbook listing the given quotes in order and
// writes it to w.
func QuoteWorkbook(w io.Writer, list []quotes.Quote) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create quotes sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header %q: %w", h, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %q: %w", h, err)
		}
	}

	for i, q := range list {
		row := i + 2
		values := []any{
			q.CreatedAt.Format("2006-01-02 15:04"),
			q.Calculator,
			q.Product,
			q.Description,
			q.PartNumber,
			q.Price,
			q.CartonQty,
			q.CartonPrice,
			strings.Join(q.Notices, "; "),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("cell name for row %d: %w", row, err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	totalRow := len(list) + 2
	totalLabelCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	totalValueCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	if err := f.SetCellValue(sheetName, totalLabelCell, "Total"); err != nil {
		return fmt.Errorf("write total label: %w", err)
	}
	var total float64
	for _, q := range list {
		total += q.Price
	}
	total = math.Round(total*100) / 100
	if err := f.SetCellValue(sheetName, totalValueCell, total); err != nil {
		return fmt.Errorf("write total value: %w", err)
	}
	if err := f.SetCellStyle(sheetName, totalLabelCell, totalValueCell, headerStyle); err != nil {
		return fmt.Errorf("style total row: %w", err)
	}

	if err := f.SetColWidth(sheetName, "A", "E", 22); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
