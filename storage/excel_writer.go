package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"vendor-collector/models"
)

const (
	vendorsSheet = "All Vendors"
	summarySheet = "Summary"

	headerFill  = "1F3864"
	validFill   = "C6EFCE"
	validFont   = "006100"
	invalidFill = "FFC7CE"
	invalidFont = "9C0006"
)

var vendorHeaders = []any{
	"Category", "Business Name", "Phone Number (E.164)", "Phone Valid",
	"Address", "Rating", "Total Reviews", "Website", "Google Maps Link",
	"Latitude", "Longitude", "Date Collected",
}

var vendorColWidths = map[string]float64{
	"A": 28, "B": 35, "C": 20, "D": 12, "E": 45, "F": 9,
	"G": 14, "H": 32, "I": 35, "J": 12, "K": 12, "L": 16,
}

var summaryHeaders = []any{
	"Category", "Total Vendors", "Invalid Phones", "Avg Rating", "Total Reviews",
}

var summaryColWidths = map[string]float64{
	"A": 28, "B": 14, "C": 14, "D": 12, "E": 14,
}

// ExcelWriter renders the report into a two-sheet XLSX file: one row per
// deduplicated vendor with a filterable styled header, and one summary row
// per category. Pure layout — no computation happens here.
type ExcelWriter struct {
	path string
}

// NewExcelWriter prepares a writer targeting the given path. Intermediate
// directories are created automatically.
func NewExcelWriter(path string) (*ExcelWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &ExcelWriter{path: path}, nil
}

// Path returns the destination the report will be saved to.
func (w *ExcelWriter) Path() string {
	return w.path
}

// Write builds and saves the workbook. SaveAs writes the whole file or
// nothing, so a failure needs no partial-file cleanup.
func (w *ExcelWriter) Write(report *models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", vendorsSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("xlsx: create summary sheet: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return fmt.Errorf("xlsx: build styles: %w", err)
	}

	if err := w.writeVendorsSheet(f, styles, report.Vendors); err != nil {
		return err
	}
	if err := w.writeSummarySheet(f, styles, report.Summaries); err != nil {
		return err
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", w.path, err)
	}
	return nil
}

// sheetStyles holds the style IDs shared by both sheets.
type sheetStyles struct {
	header       int
	validPhone   int
	invalidPhone int
	rating       int
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Arial", Bold: true, Color: "FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center", Vertical: "center", WrapText: true,
		},
	})
	if err != nil {
		return nil, err
	}

	validPhone, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Arial", Bold: true, Color: validFont, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{validFill}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	invalidPhone, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Arial", Bold: true, Color: invalidFont, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{invalidFill}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	ratingFmt := 2 // built-in "0.00"
	rating, err := f.NewStyle(&excelize.Style{NumFmt: ratingFmt})
	if err != nil {
		return nil, err
	}

	return &sheetStyles{
		header:       header,
		validPhone:   validPhone,
		invalidPhone: invalidPhone,
		rating:       rating,
	}, nil
}

func (w *ExcelWriter) writeVendorsSheet(f *excelize.File, styles *sheetStyles, vendors []*models.VendorRecord) error {
	if err := f.SetSheetRow(vendorsSheet, "A1", &vendorHeaders); err != nil {
		return fmt.Errorf("xlsx: vendors header: %w", err)
	}

	for i, v := range vendors {
		row := i + 2
		phoneValid := "No"
		if v.PhoneValid {
			phoneValid = "Yes"
		}
		cells := []any{
			v.Category, v.Name, v.Phone, phoneValid, v.Address,
			v.Rating, v.Reviews, v.Website, v.MapsLink,
			v.Latitude, v.Longitude, v.CollectedAt.Format("02-Jan-2006"),
		}
		if err := f.SetSheetRow(vendorsSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			return fmt.Errorf("xlsx: vendors row %d: %w", row, err)
		}

		phoneStyle := styles.invalidPhone
		if v.PhoneValid {
			phoneStyle = styles.validPhone
		}
		cell := fmt.Sprintf("D%d", row)
		if err := f.SetCellStyle(vendorsSheet, cell, cell, phoneStyle); err != nil {
			return fmt.Errorf("xlsx: vendors phone style: %w", err)
		}
	}

	return w.decorateSheet(f, styles, vendorsSheet, vendorColWidths, "L", len(vendors))
}

func (w *ExcelWriter) writeSummarySheet(f *excelize.File, styles *sheetStyles, summaries []*models.CategorySummary) error {
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		return fmt.Errorf("xlsx: summary header: %w", err)
	}

	for i, s := range summaries {
		row := i + 2
		cells := []any{s.Category, s.Vendors, s.InvalidPhones, s.AvgRating, s.TotalReviews}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			return fmt.Errorf("xlsx: summary row %d: %w", row, err)
		}
		cell := fmt.Sprintf("D%d", row)
		if err := f.SetCellStyle(summarySheet, cell, cell, styles.rating); err != nil {
			return fmt.Errorf("xlsx: summary rating style: %w", err)
		}
	}

	return w.decorateSheet(f, styles, summarySheet, summaryColWidths, "E", len(summaries))
}

// decorateSheet applies the shared layout: column widths, styled header row,
// autofilter over the data range and a frozen top row.
func (w *ExcelWriter) decorateSheet(f *excelize.File, styles *sheetStyles, sheet string, widths map[string]float64, lastCol string, dataRows int) error {
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("xlsx: %s col width: %w", sheet, err)
		}
	}

	if err := f.SetRowHeight(sheet, 1, 30); err != nil {
		return fmt.Errorf("xlsx: %s header height: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header); err != nil {
		return fmt.Errorf("xlsx: %s header style: %w", sheet, err)
	}

	filterRange := fmt.Sprintf("A1:%s%d", lastCol, dataRows+1)
	if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
		return fmt.Errorf("xlsx: %s autofilter: %w", sheet, err)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx: %s freeze panes: %w", sheet, err)
	}
	return nil
}
