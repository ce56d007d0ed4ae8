package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"poster_app_go/middleware"
	"poster_app_go/models"
	"poster_app_go/services"
	"poster_app_go/services/i18n"

	"github.com/labstack/echo/v4"
)

func errorLogEntries(c echo.Context) ([]models.ErrorLogEntry, error) {
	sink := getStudio(c).ErrorLog()
	if sink == nil {
		return nil, nil
	}
	return sink.EntriesForSession(c.Request().Context(), middleware.GetSessionID(c))
}

// ErrorLogTextHandler downloads the error log as text
func ErrorLogTextHandler(c echo.Context) error {
	entries, err := errorLogEntries(c)
	if err != nil {
		log.Printf("[ERROR] Failed to read error log: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, alertKey(c, "errors.error_log_unavailable"))
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=poster_error_log_%s.txt", time.Now().Format("20060102_150405")))
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(services.CombinedText(entries)))
}

// ErrorLogWorkbookHandler downloads the error log as a spreadsheet
func ErrorLogWorkbookHandler(c echo.Context) error {
	entries, err := errorLogEntries(c)
	if err != nil {
		log.Printf("[ERROR] Failed to read error log: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, alertKey(c, "errors.error_log_unavailable"))
	}

	buf, err := services.GenerateErrorLogWorkbook(c.Request().Context(), entries)
	if err != nil {
		log.Printf("[ERROR] Failed to build error log workbook: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, alertKey(c, "errors.error_log_unavailable"))
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=poster_error_log_%s.xlsx", time.Now().Format("20060102_150405")))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// HealthHandler reports that the server is up
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func alertKey(c echo.Context, key string) string {
	return i18n.T(c.Request().Context(), key)
}
