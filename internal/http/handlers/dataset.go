package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/onboardops/onboardops/internal/dataset"
	"github.com/onboardops/onboardops/internal/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleDatasetLoad replaces the dataset with an uploaded spreadsheet. The
// body is either a multipart form with a "file" part or raw xlsx bytes.
func (h *Handlers) HandleDatasetLoad(c *echo.Context) error {
	data, err := h.uploadBytes(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Dataset.Load(data); err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("error").Inc()
		metrics.DatasetRows.Set(0)
		return jsonError(c, http.StatusUnprocessableEntity, err.Error())
	}
	metrics.DatasetLoadsTotal.WithLabelValues("ok").Inc()
	metrics.DatasetRows.Set(float64(h.Dataset.Len()))
	return c.JSON(http.StatusOK, map[string]any{"rows": h.Dataset.Len()})
}

func (h *Handlers) uploadBytes(c *echo.Context) ([]byte, error) {
	limit := h.Cfg.MaxUploadBytes
	if limit <= 0 {
		limit = 10 << 20
	}

	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return io.ReadAll(io.LimitReader(src, limit))
	}
	return io.ReadAll(io.LimitReader(c.Request().Body, limit))
}

// HandleDatasetExport serializes the working set and advances the baseline.
func (h *Handlers) HandleDatasetExport(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.Dataset.Save()
	if err != nil {
		metrics.DatasetSavesTotal.WithLabelValues("error").Inc()
		return jsonError(c, http.StatusInternalServerError, err.Error())
	}
	metrics.DatasetSavesTotal.WithLabelValues("ok").Inc()
	c.Response().Header().Set("Content-Disposition", `attachment; filename="onboarding.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// HandleDatasetRows lists the working set.
func (h *Handlers) HandleDatasetRows(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"rows":              h.Dataset.Rows(),
		"hasUnsavedChanges": h.Dataset.HasUnsavedChanges(),
	})
}

// HandleDatasetAddRow appends a fresh empty row.
func (h *Handlers) HandleDatasetAddRow(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	row := h.Dataset.AddRow()
	metrics.DatasetMutationsTotal.WithLabelValues("add").Inc()
	metrics.DatasetRows.Set(float64(h.Dataset.Len()))
	return c.JSON(http.StatusCreated, row)
}

type updateCellRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// HandleDatasetUpdateCell replaces one field value on one row.
func (h *Handlers) HandleDatasetUpdateCell(c *echo.Context) error {
	var req updateCellRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	field, ok := dataset.FieldFromHeader(req.Field)
	if !ok {
		return jsonError(c, http.StatusBadRequest, "unknown field: "+req.Field)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Dataset.UpdateCell(c.Param("id"), field, req.Value) {
		return jsonError(c, http.StatusNotFound, "row not found")
	}
	metrics.DatasetMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"hasUnsavedChanges": h.Dataset.HasUnsavedChanges(),
	})
}

// HandleDatasetDeleteRow removes one row.
func (h *Handlers) HandleDatasetDeleteRow(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Dataset.DeleteRow(c.Param("id")) {
		return jsonError(c, http.StatusNotFound, "row not found")
	}
	metrics.DatasetMutationsTotal.WithLabelValues("delete").Inc()
	metrics.DatasetRows.Set(float64(h.Dataset.Len()))
	return c.NoContent(http.StatusNoContent)
}

// HandleDatasetDuplicateRow appends a copy of one row.
func (h *Handlers) HandleDatasetDuplicateRow(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	row, ok := h.Dataset.DuplicateRow(c.Param("id"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "row not found")
	}
	metrics.DatasetMutationsTotal.WithLabelValues("duplicate").Inc()
	metrics.DatasetRows.Set(float64(h.Dataset.Len()))
	return c.JSON(http.StatusCreated, row)
}

// HandleDatasetReset discards unsaved edits.
func (h *Handlers) HandleDatasetReset(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Dataset.Reset()
	metrics.DatasetMutationsTotal.WithLabelValues("reset").Inc()
	metrics.DatasetRows.Set(float64(h.Dataset.Len()))
	return c.NoContent(http.StatusNoContent)
}

// HandleDatasetProgress returns the aggregate completion rollup.
func (h *Handlers) HandleDatasetProgress(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return c.JSON(http.StatusOK, h.Dataset.OverallProgress())
}

// HandleDatasetValidation returns the advisory issue list.
func (h *Handlers) HandleDatasetValidation(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	issues := h.Dataset.Validate()
	if issues == nil {
		issues = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"issues": issues})
}

// HandleDatasetStatus reports the working set size and dirty flag.
func (h *Handlers) HandleDatasetStatus(c *echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"rows":              h.Dataset.Len(),
		"hasUnsavedChanges": h.Dataset.HasUnsavedChanges(),
	})
}
