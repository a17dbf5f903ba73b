package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	settlement "cleanops/internal/settlement/domain"
)

// BuildSnapshotPDF renders the snapshot as a PDF: the summary table first,
// then one detail table per host statement.
func BuildSnapshotPDF(snapshot *settlement.Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Monthly Settlement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %s", snapshot.Month))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(40, 6, "Host", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Cleaning", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Facility", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Monthly", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Misc", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Grand Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range snapshot.Summary {
		pdf.CellFormat(40, 6, row.HostName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.0f", row.Cleaning), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.0f", row.Facility), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.0f", row.Monthly), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.0f", row.Misc), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.0f", row.GrandTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	for _, st := range snapshot.Statements {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, fmt.Sprintf("Statement: %s", st.HostName))
		pdf.Ln(9)

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Room", "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, "Item", "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 6, "Qty", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Amount", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Total", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, line := range st.Lines {
			pdf.CellFormat(25, 6, line.Date, "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, line.RoomLabel, "1", 0, "L", false, 0, "")
			pdf.CellFormat(55, 6, line.Item, "1", 0, "L", false, 0, "")
			pdf.CellFormat(15, 6, fmt.Sprintf("%.0f", line.Quantity), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%.0f", line.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%.0f", line.Total), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}

		pdf.Ln(2)
		pdf.Cell(0, 6, fmt.Sprintf("Total: %.0f  VAT: %.0f  Grand Total: %.0f",
			st.Totals.Total, st.Totals.VAT, st.Totals.GrandTotal))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSnapshotXLSX renders the snapshot as a workbook with a summary sheet
// and one sheet per host statement.
func BuildSnapshotXLSX(snapshot *settlement.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	f.SetSheetName("Sheet1", summarySheet)

	_ = f.SetCellValue(summarySheet, "A1", "Monthly Settlement")
	_ = f.SetCellValue(summarySheet, "A2", "Month")
	_ = f.SetCellValue(summarySheet, "B2", snapshot.Month)

	headers := []string{"Host", "Cleaning", "Facility", "Monthly", "Misc", "Total", "VAT", "Grand Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(summarySheet, cell, header)
	}
	for i, row := range snapshot.Summary {
		values := []any{row.HostName, row.Cleaning, row.Facility, row.Monthly, row.Misc, row.Total, row.VAT, row.GrandTotal}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+5)
			_ = f.SetCellValue(summarySheet, cell, value)
		}
	}

	for _, st := range snapshot.Statements {
		sheet := statementSheetName(st)
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
		lineHeaders := []string{"Date", "Room", "Item", "Qty", "Amount", "Total", "Category"}
		for i, header := range lineHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, header)
		}
		for i, line := range st.Lines {
			values := []any{line.Date, line.RoomLabel, line.Item, line.Quantity, line.Amount, line.Total, string(line.Category)}
			for j, value := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				_ = f.SetCellValue(sheet, cell, value)
			}
		}
		footer := len(st.Lines) + 3
		_ = f.SetCellValue(sheet, "A"+strconv.Itoa(footer), "Total")
		_ = f.SetCellValue(sheet, "B"+strconv.Itoa(footer), st.Totals.Total)
		_ = f.SetCellValue(sheet, "A"+strconv.Itoa(footer+1), "VAT")
		_ = f.SetCellValue(sheet, "B"+strconv.Itoa(footer+1), st.Totals.VAT)
		_ = f.SetCellValue(sheet, "A"+strconv.Itoa(footer+2), "Grand Total")
		_ = f.SetCellValue(sheet, "B"+strconv.Itoa(footer+2), st.Totals.GrandTotal)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSnapshotCSV renders every statement line as one flat CSV row.
func BuildSnapshotCSV(snapshot *settlement.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"month", "host", "date", "room", "item", "quantity", "amount", "total", "category", "discount", "ratio"}); err != nil {
		return nil, err
	}
	for _, st := range snapshot.Statements {
		for _, line := range st.Lines {
			record := []string{
				snapshot.Month,
				st.HostName,
				line.Date,
				line.RoomLabel,
				line.Item,
				strconv.FormatFloat(line.Quantity, 'f', -1, 64),
				strconv.FormatFloat(line.Amount, 'f', -1, 64),
				strconv.FormatFloat(line.Total, 'f', -1, 64),
				string(line.Category),
				strconv.FormatBool(line.Discount),
				strconv.FormatBool(line.Ratio),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// statementSheetName keeps sheet names inside the 31 character limit and
// unique across hosts sharing a name prefix.
func statementSheetName(st settlement.Statement) string {
	name := st.HostName
	if len(name) > 20 {
		name = name[:20]
	}
	return name + " #" + strconv.FormatInt(st.HostID, 10)
}
