// Package xlsx bridges Excel workbooks and tables so spreadsheets can
// feed BulkInsert and WriteTable directly.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/queuebridge/sqlbridge/pkg/core/table"
)

// FromFile reads one sheet into a table. The first row is the header;
// every column is typed TEXT and empty cells become NULL. An empty
// sheet name selects the active sheet.
func FromFile(path, sheetName string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheetName)
	}

	header := rows[0]
	result := &table.Table{
		Name:    sheetName,
		Columns: make([]table.Column, len(header)),
	}
	for i, name := range header {
		result.Columns[i] = table.Column{Name: name, Type: table.TypeText}
	}

	for _, cells := range rows[1:] {
		row := make([]any, len(header))
		for i := range header {
			// GetRows trims trailing empty cells from each row.
			if i < len(cells) && cells[i] != "" {
				row[i] = cells[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// ToFile writes a table to an Excel file with a styled header row.
func ToFile(tbl *table.Table, path, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = tbl.Name
		if sheetName == "" {
			sheetName = "Sheet1"
		}
	}

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, column := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, column.Name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for rowIdx, row := range tbl.Rows {
		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIdx, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
