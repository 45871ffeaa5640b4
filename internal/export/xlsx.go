// Package export writes aggregated tables as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/models"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	querySheet  = "Query"
)

// Filename is the attachment name used for a view and range, e.g.
// sakila_World_2005-05-24_2006-02-14.xlsx.
func Filename(view geo.View, rng models.DateRange) string {
	return fmt.Sprintf("sakila_%s_%s_%s.xlsx", view.Name,
		rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))
}

// WriteWorkbook writes rows to w as an xlsx workbook with one sheet named
// after the view and a second sheet describing the query. Missing ratios are
// left as empty cells.
func WriteWorkbook(w io.Writer, view geo.View, rng models.DateRange, rows []models.AggregatedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := view.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := append([]string{view.KeyColumn}, metricKeys()...)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", last, 22)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", last+"1", bold)
	}

	for rowIdx, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetCellValue(sheet, cell, row.GeoKey); err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}

		for colIdx, metric := range models.Metrics {
			v, err := metric.Of(row)
			if err != nil {
				return err
			}
			if models.Value(v).IsMissing() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+2, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if _, err := f.NewSheet(querySheet); err != nil {
		return fmt.Errorf("add query sheet: %w", err)
	}
	info := [][2]any{
		{"view", view.Name},
		{"start", rng.Start.Format("2006-01-02")},
		{"end", rng.End.Format("2006-01-02")},
		{"geographies", len(rows)},
	}
	for i, kv := range info {
		_ = f.SetCellValue(querySheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(querySheet, fmt.Sprintf("B%d", i+1), kv[1])
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func metricKeys() []string {
	keys := make([]string, len(models.Metrics))
	for i, m := range models.Metrics {
		keys[i] = string(m)
	}
	return keys
}
