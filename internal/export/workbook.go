// Package export renders maintenance lists and handover receipts as
// downloadable documents.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/ukydev/municipal-assets/internal/models"
	"github.com/xuri/excelize/v2"
)

// MaintenanceSheet is the name of the only sheet in the workbook.
const MaintenanceSheet = "Maintenances"

var maintenanceColumns = []string{
	"Code",
	"Asset",
	"Type",
	"Priority",
	"Status",
	"Scheduled",
	"Started",
	"Finished",
	"Work description",
	"Technician",
	"Supplier",
	"Work order",
	"Labor cost",
	"Parts cost",
	"Total cost",
	"Warranty until",
}

// WriteMaintenanceWorkbook writes records as an XLSX workbook, one row per
// record after a header row. Costs are written as numbers.
func WriteMaintenanceWorkbook(w io.Writer, records []models.MaintenanceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MaintenanceSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(maintenanceColumns))
	for i, col := range maintenanceColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(MaintenanceSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(maintenanceColumns), 1)
	if err := f.SetCellStyle(MaintenanceSheet, "A1", lastCol, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetPanes(MaintenanceSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := maintenanceRow(rec)
		if err := f.SetSheetRow(MaintenanceSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(MaintenanceSheet, "A", "P", 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(MaintenanceSheet, "I", "I", 48); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func maintenanceRow(rec models.MaintenanceRecord) []interface{} {
	return []interface{}{
		rec.MaintenanceCode,
		rec.AssetID.String(),
		string(rec.MaintenanceType),
		string(rec.Priority),
		string(rec.MaintenanceStatus),
		rec.ScheduledDate.String(),
		optionalDate(rec.StartDate),
		optionalDate(rec.EndDate),
		rec.WorkDescription,
		rec.TechnicalResponsibleID.String(),
		rec.ServiceSupplierID.String(),
		rec.WorkOrder,
		money(rec.LaborCost),
		money(rec.PartsCost),
		money(totalCost(rec)),
		optionalDate(rec.WarrantyExpirationDate),
	}
}

// totalCost trusts the backend's figure and falls back to the sum when the
// backend did not send one.
func totalCost(rec models.MaintenanceRecord) decimal.Decimal {
	if !rec.TotalCost.IsZero() {
		return rec.TotalCost
	}
	return rec.LaborCost.Add(rec.PartsCost)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
