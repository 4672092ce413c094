package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"health_monitor/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportData is the downloadable dump of the session.
type ExportData struct {
	ExportTime    time.Time        `json:"export_time"`
	AlertHistory  []models.Alert   `json:"alert_history"`
	VitalsHistory []models.Reading `json:"vitals_history"`
	CurrentVitals models.Reading   `json:"current_vitals"`
}

const (
	sheetAlerts = "Alerts"
	sheetVitals = "Vitals"
)

// Export returns the alert history, the rolling window and the current vitals.
func (m *Monitor) Export(ctx context.Context) (ExportData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return ExportData{
		ExportTime:    m.now().UTC(),
		AlertHistory:  m.history.All(),
		VitalsHistory: m.tracker.Recent(m.tracker.Len()),
		CurrentVitals: m.current,
	}, nil
}

// ExportXLSX writes the export as a workbook with one sheet for alerts and one for vitals.
func (m *Monitor) ExportXLSX(ctx context.Context, w io.Writer) error {
	data, err := m.Export(ctx)
	if err != nil {
		return err
	}
	return WriteXLSX(w, data)
}

// WriteXLSX renders data as an .xlsx workbook.
func WriteXLSX(w io.Writer, data ExportData) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetAlerts); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	alertRows := [][]interface{}{{"Time", "Kind", "Message", "Heart rate", "Blood oxygen"}}
	for _, a := range data.AlertHistory {
		alertRows = append(alertRows, []interface{}{
			a.OccurredAt.UTC().Format(time.RFC3339), string(a.Kind), a.Message, a.HeartRate, a.BloodOxygen,
		})
	}
	if err := writeRows(f, sheetAlerts, alertRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetVitals); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetVitals, err)
	}
	vitalRows := [][]interface{}{{"Time", "Heart rate", "Blood oxygen"}}
	for _, r := range data.VitalsHistory {
		vitalRows = append(vitalRows, []interface{}{r.CapturedAt.UTC().Format(time.RFC3339), r.HeartRate, r.BloodOxygen})
	}
	if err := writeRows(f, sheetVitals, vitalRows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
