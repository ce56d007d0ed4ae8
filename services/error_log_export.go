package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"poster_app_go/models"
	"poster_app_go/services/i18n"

	"github.com/xuri/excelize/v2"
)

const errorLogSheet = "ErrorLog"

// GenerateErrorLogWorkbook renders the error log as a spreadsheet, one entry per row
func GenerateErrorLogWorkbook(ctx context.Context, entries []models.ErrorLogEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", errorLogSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{
		i18n.T(ctx, "errorlog.columns.timestamp"),
		i18n.T(ctx, "errorlog.columns.operation"),
		i18n.T(ctx, "errorlog.columns.error_name"),
		i18n.T(ctx, "errorlog.columns.error_message"),
		i18n.T(ctx, "errorlog.columns.context"),
		i18n.T(ctx, "errorlog.columns.client"),
		i18n.T(ctx, "errorlog.columns.stack"),
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(errorLogSheet, cell, header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(errorLogSheet, "A1", "G1", headerStyle)
	f.SetColWidth(errorLogSheet, "A", "C", 22)
	f.SetColWidth(errorLogSheet, "D", "F", 48)
	f.SetColWidth(errorLogSheet, "G", "G", 80)

	for i, e := range entries {
		row := []interface{}{
			e.Timestamp.Format(time.RFC3339),
			e.Operation,
			e.ErrorName,
			e.ErrorMessage,
			e.Context,
			e.ClientEnvironment,
			e.StackTrace,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(errorLogSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write error log row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}
