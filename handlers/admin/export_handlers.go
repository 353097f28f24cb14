package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"academy/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportStage downloads the progress of every team on a stage
// @Summary Export stage progress
// @Description Excel workbook with the status, feedback and last submission of every team on a stage
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Stage ID"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/stages/{id}/export [get]
// @Security Bearer
func (h *Handler) ExportStage(c *gin.Context) {
	stageID, ok := paramID(c, "id")
	if !ok {
		respondWithError(c, http.StatusBadRequest, ErrInvalidStageID)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	buffer, filename, err := h.Exports.ExportStageProgress(ctx, stageID)
	if err != nil {
		if errors.Is(err, services.ErrStageNotFound) {
			respondWithError(c, http.StatusNotFound, ErrStageNotFound)
			return
		}
		logrus.WithError(err).WithField("stage_id", stageID).Error("failed to export stage progress")
		respondWithError(c, http.StatusInternalServerError, ErrExportFailed)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, excelContentType, buffer.Bytes())
}
