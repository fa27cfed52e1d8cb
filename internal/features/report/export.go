package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportDateFormat = "2006-01-02 15:04:05"

// Export serializes a report into the requested format and returns the
// file bytes, the filename and the MIME type. All formats build the
// whole file in memory first: a failure produces no partial output.
func Export(data *ReportData, format, baseName string) ([]byte, string, string, error) {
	if baseName == "" {
		baseName = "report"
	}
	stamp := time.Now().Format("20060102_150405")

	switch format {
	case "csv":
		out, err := exportCSV(data)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("%s_%s.csv", baseName, stamp), "text/csv", nil
	case "json":
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, "", "", exportErrorf("json marshal failed: %v", err)
		}
		return out, fmt.Sprintf("%s_%s.json", baseName, stamp), "application/json", nil
	case "xlsx":
		out, err := exportExcel(data)
		if err != nil {
			return nil, "", "", err
		}
		return out, fmt.Sprintf("%s_%s.xlsx", baseName, stamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case "pdf":
		return nil, "", "", fmt.Errorf("%w: pdf export", ErrNotImplemented)
	default:
		return nil, "", "", exportErrorf("unsupported format: %s", format)
	}
}

func exportCSV(data *ReportData) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		headers[i] = col.Header
	}
	if err := writer.Write(headers); err != nil {
		return nil, exportErrorf("csv write failed: %v", err)
	}

	for _, row := range data.Rows {
		record := make([]string, len(data.Columns))
		for i, col := range data.Columns {
			record[i] = formatCell(row[col.Field])
		}
		if err := writer.Write(record); err != nil {
			return nil, exportErrorf("csv write failed: %v", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, exportErrorf("csv flush failed: %v", err)
	}
	return buf.Bytes(), nil
}

func exportExcel(data *ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, exportErrorf("excel sheet failed: %v", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range data.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.Header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range data.Rows {
		for colIdx, col := range data.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := row[col.Field].(type) {
			case time.Time:
				f.SetCellValue(sheetName, cell, v.Format(exportDateFormat))
			case nil:
				f.SetCellValue(sheetName, cell, "")
			default:
				f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	for i := range data.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 15)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, exportErrorf("excel write failed: %v", err)
	}
	return buffer.Bytes(), nil
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(exportDateFormat)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
