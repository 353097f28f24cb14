package teams

import (
	"context"
	"errors"
	"net/http"

	"academy/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListStages returns the competition stages
// @Summary List competition stages
// @Description Get every competition stage ordered by its position in the competition
// @Tags Competition
// @Produce json
// @Success 200 {array} models.CompetitionStage
// @Failure 500 {object} map[string]string
// @Router /stages [get]
func (h *Handler) ListStages(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	stages, err := h.Catalog.ListStages(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list stages")
		respondWithError(c, http.StatusInternalServerError, ErrFetchStagesFailed)
		return
	}
	c.JSON(http.StatusOK, stages)
}

// ListCategories returns the competition categories
// @Summary List categories
// @Description Get the categories a team can register in
// @Tags Competition
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} map[string]string
// @Router /categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	categories, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list categories")
		respondWithError(c, http.StatusInternalServerError, ErrFetchCategories)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// RegisterTeam registers a new team on the first stage
// @Summary Register a team
// @Description Create a team in a category; the team starts on the first stage
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body RegisterTeamRequest true "Team details"
// @Success 201 {object} models.Team
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /teams [post]
func (h *Handler) RegisterTeam(c *gin.Context) {
	var req RegisterTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	team, err := h.Catalog.RegisterTeam(ctx, req.Name, req.ContactEmail, req.CategoryID)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, team)
	case errors.Is(err, services.ErrInvalidTeam):
		respondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCategoryNotFound):
		respondWithError(c, http.StatusNotFound, ErrCategoryNotFound)
	case errors.Is(err, services.ErrTeamNameTaken):
		respondWithError(c, http.StatusConflict, ErrTeamNameTaken)
	case errors.Is(err, services.ErrNoStages):
		respondWithError(c, http.StatusConflict, ErrNoStages)
	default:
		logrus.WithError(err).Error("failed to register team")
		respondWithError(c, http.StatusInternalServerError, ErrRegisterFailed)
	}
}
