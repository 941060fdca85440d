package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, rows []LayoutRow) error {
	records := make([][]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, []any{
			row.Date,
			row.ID,
			row.Start,
			row.End,
			row.Duration,
			row.Column,
			row.OverlapCount,
			row.Top,
			row.Height,
			row.Width,
			row.Left,
			row.Background,
			row.Foreground,
		})
	}
	return writeExcel(path, "Layout", layoutHeaders, records)
}

func writeExcel(path, sheetName string, headers []string, records [][]any) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := file.SetSheetName(sheet, sheetName); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}
	sheet = sheetName

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range records {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
