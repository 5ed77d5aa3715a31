package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/api/transport"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/gin-gonic/gin"
)

type CompetitorMetaController struct {
	storage       storage.CompetitorStorage
	scoresStorage storage.ScoreStorage
}

func NewCompetitorMetaController(s storage.CompetitorStorage, scores storage.ScoreStorage) *CompetitorMetaController {
	return &CompetitorMetaController{storage: s, scoresStorage: scores}
}

func (c *CompetitorMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/competitors")

	group.GET("", c.getAll)
	group.GET("/:id", transport.AdminAuthMiddleware(), c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all competitors
// @Tags Meta/Competitors
// @Produce json
// @Success 200 {array} models.CompetitorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/competitors [get]
func (c *CompetitorMetaController) getAll(g *gin.Context) {
	competitors, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all competitors: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	// Sort this so it shows the same for everyone
	sort.SliceStable(competitors, func(i, j int) bool {
		return competitors[i].ID < competitors[j].ID
	})

	responses := make([]models.CompetitorResponse, 0, len(competitors))
	for _, competitor := range competitors {
		responses = append(responses, models.TransformCompetitorFromStorage(competitor))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a competitor by ID
// @Tags Meta/Competitors
// @Produce json
// @Param id path int true "Competitor ID"
// @Success 200 {object} models.CompetitorResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/competitors/{id} [get]
func (c *CompetitorMetaController) get(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid competitor id"})
		return
	}
	competitor, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get competitor: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if competitor == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "competitor not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformCompetitorFromStorage(competitor))
}

// @Security AdminToken
// @Summary Create a new competitor
// @Tags Meta/Competitors
// @Accept json
// @Produce json
// @Param competitor body models.CompetitorCreateRequest true "Competitor object"
// @Success 200 {object} models.CompetitorResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/competitors [post]
func (c *CompetitorMetaController) create(g *gin.Context) {
	var req models.CompetitorCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create competitor request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if req.Name == "" {
		logging.Log.Errorf("META: invalid create competitor request: %v", req)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request empty name"})
		return
	}

	competitor := &storage.Competitor{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Members:     req.Members,
		Active:      true,
	}

	if err := c.storage.Create(g.Request.Context(), competitor); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: competitor with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, models.ErrorResponse{Error: "competitor with ID already exists"})
			return
		}

		logging.Log.Errorf("META: failed to create competitor: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCompetitorFromStorage(competitor))
}

// @Security AdminToken
// @Summary Update an existing competitor
// @Tags Meta/Competitors
// @Accept json
// @Produce json
// @Param id path int true "Competitor ID"
// @Param competitor body models.CompetitorUpdateRequest true "Competitor object"
// @Success 200 {object} models.CompetitorResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/competitors/{id} [put]
func (c *CompetitorMetaController) update(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid competitor id"})
		return
	}

	var req models.CompetitorUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid update competitor request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if req.Name == "" {
		logging.Log.Errorf("META: invalid update competitor request: %v", req)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request empty name"})
		return
	}

	existing, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get competitor: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if existing == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "competitor not found"})
		return
	}

	competitor := &storage.Competitor{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Members:     req.Members,
		Active:      existing.Active,
	}
	if req.Active != nil {
		competitor.Active = *req.Active
	}

	if err := c.storage.Update(g.Request.Context(), competitor); err != nil {
		logging.Log.Errorf("META: failed to update competitor: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCompetitorFromStorage(competitor))
}

// @Security AdminToken
// @Summary Delete or deactivate a competitor
// @Description Competitors referenced by scores are deactivated instead of deleted
// @Tags Meta/Competitors
// @Produce json
// @Param id path int true "Competitor ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/competitors/{id} [delete]
func (c *CompetitorMetaController) delete(g *gin.Context) {
	idStr := g.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid competitor id"})
		return
	}

	competitor, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get competitor: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if competitor == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "competitor not found"})
		return
	}

	referenced, err := c.isReferenced(g, id)
	if err != nil {
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	if referenced {
		competitor.Active = false
		if err := c.storage.Update(g.Request.Context(), competitor); err != nil {
			logging.Log.Errorf("META: failed to deactivate competitor: %v", err)
			g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Infof("META: competitor %d has scores, deactivated instead of deleted", id)
		g.JSON(http.StatusOK, gin.H{"message": "competitor deactivated"})
		return
	}

	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete competitor: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "competitor deleted"})
}

func (c *CompetitorMetaController) isReferenced(g *gin.Context, competitorID int) (bool, error) {
	entries, err := c.scoresStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to check competitor references: %v", err)
		return false, err
	}
	for _, e := range entries {
		if e.CompetitorID == competitorID {
			return true, nil
		}
	}
	return false, nil
}
