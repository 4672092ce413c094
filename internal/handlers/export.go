package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	formatJSON = "json"
	formatXLSX = "xlsx"

	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	errExport       = "failed to export health data"
	errExportFormat = "invalid 'format'; use json or xlsx"
)

// exportFilename follows health_data_YYYY-MM-DD.<ext>.
func exportFilename(at time.Time, ext string) string {
	return fmt.Sprintf("health_data_%s.%s", at.UTC().Format(layoutDate), ext)
}

// @Summary      Export health data
// @Description  Download alert history, recent vitals and current vitals as JSON or an Excel workbook.
// @Tags         export
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "Export format"  Enums(json,xlsx)
// @Success      200  {object}  service.ExportData
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/export [get]
func (h *Handler) export(c *gin.Context) {
	ctx := c.Request.Context()
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", formatJSON)))

	switch format {
	case formatJSON:
		data, err := h.services.Exporter.Export(ctx)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errExport, "export_failed", err, "format", format)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+exportFilename(data.ExportTime, formatJSON)+`"`)
		c.JSON(http.StatusOK, data)

	case formatXLSX:
		// Buffer so a failure can still be reported as JSON.
		var buf bytes.Buffer
		if err := h.services.Exporter.ExportXLSX(ctx, &buf); err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errExport, "export_failed", err, "format", format)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+exportFilename(time.Now(), formatXLSX)+`"`)
		c.Data(http.StatusOK, mimeXLSX, buf.Bytes())

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errExportFormat})
	}
}
