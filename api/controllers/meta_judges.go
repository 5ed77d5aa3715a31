package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/api/transport"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type JudgeMetaController struct {
	storage storage.JudgeStorage
}

func NewJudgeMetaController(s storage.JudgeStorage) *JudgeMetaController {
	return &JudgeMetaController{storage: s}
}

func (c *JudgeMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/judges", transport.AdminAuthMiddleware())

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", c.create)
	group.PUT("/:id", c.update)
	group.POST("/:id/token", c.resetToken)
	group.DELETE("/:id", c.deactivate)
}

// @Security AdminToken
// @Summary List all judges
// @Tags Meta/Judges
// @Produce json
// @Success 200 {array} models.JudgeResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/judges [get]
func (c *JudgeMetaController) getAll(g *gin.Context) {
	judges, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to list judges: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	sort.SliceStable(judges, func(i, j int) bool {
		return judges[i].ID < judges[j].ID
	})

	responses := make([]models.JudgeResponse, 0, len(judges))
	for _, judge := range judges {
		responses = append(responses, models.TransformJudgeFromStorage(judge, false))
	}
	logging.Log.Infof("META: listed %d judges", len(responses))
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Get a judge by ID
// @Tags Meta/Judges
// @Produce json
// @Param id path int true "Judge ID"
// @Success 200 {object} models.JudgeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/judges/{id} [get]
func (c *JudgeMetaController) get(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid judge id"})
		return
	}
	judge, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get judge: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if judge == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "judge not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformJudgeFromStorage(judge, false))
}

// @Security AdminToken
// @Summary Create a new judge
// @Description Creates the judge and returns their freshly generated access token
// @Tags Meta/Judges
// @Accept json
// @Produce json
// @Param judge body models.JudgeCreateRequest true "Judge object"
// @Success 200 {object} models.JudgeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/judges [post]
func (c *JudgeMetaController) create(g *gin.Context) {
	var req models.JudgeCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request, missing name"})
		return
	}

	token, err := c.generateToken()
	if err != nil {
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "could not generate token"})
		return
	}

	judge := &storage.Judge{
		ID:        req.ID,
		Name:      req.Name,
		Token:     token,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.storage.Create(g.Request.Context(), judge); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: judge with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, models.ErrorResponse{Error: "judge with ID already exists"})
			return
		}

		logging.Log.Errorf("META: failed to create judge: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logging.Log.Infof("META: created judge %d (%s)", judge.ID, judge.Name)
	g.JSON(http.StatusOK, models.TransformJudgeFromStorage(judge, true))
}

// @Security AdminToken
// @Summary Update a judge
// @Tags Meta/Judges
// @Accept json
// @Produce json
// @Param id path int true "Judge ID"
// @Param judge body models.JudgeUpdateRequest true "Judge object"
// @Success 200 {object} models.JudgeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/judges/{id} [put]
func (c *JudgeMetaController) update(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid judge id"})
		return
	}

	var req models.JudgeUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request, missing name"})
		return
	}

	judge, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get judge: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if judge == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "judge not found"})
		return
	}

	judge.Name = req.Name
	if req.Active != nil {
		judge.Active = *req.Active
	}

	if err := c.storage.Update(g.Request.Context(), judge); err != nil {
		logging.Log.Errorf("META: failed to update judge: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformJudgeFromStorage(judge, false))
}

// @Security AdminToken
// @Summary Reset a judge's access token
// @Tags Meta/Judges
// @Produce json
// @Param id path int true "Judge ID"
// @Success 200 {object} models.JudgeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/judges/{id}/token [post]
func (c *JudgeMetaController) resetToken(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid judge id"})
		return
	}

	judge, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get judge: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if judge == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "judge not found"})
		return
	}

	token, err := c.generateToken()
	if err != nil {
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "could not generate token"})
		return
	}
	judge.Token = token

	if err := c.storage.Update(g.Request.Context(), judge); err != nil {
		logging.Log.Errorf("META: failed to store new token: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logging.Log.Infof("META: reset token for judge %d", id)
	g.JSON(http.StatusOK, models.TransformJudgeFromStorage(judge, true))
}

// @Security AdminToken
// @Summary Deactivate a judge
// @Description Judges are never deleted, only deactivated, so their scores stay attributable
// @Tags Meta/Judges
// @Produce json
// @Param id path int true "Judge ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/judges/{id} [delete]
func (c *JudgeMetaController) deactivate(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid judge id"})
		return
	}

	judge, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get judge: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if judge == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "judge not found"})
		return
	}

	judge.Active = false
	if err := c.storage.Update(g.Request.Context(), judge); err != nil {
		logging.Log.Errorf("META: failed to deactivate judge: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logging.Log.Infof("META: deactivated judge %d", id)
	g.JSON(http.StatusOK, gin.H{"message": "judge deactivated"})
}

func (c *JudgeMetaController) generateToken() (string, error) {
	token, err := gonanoid.Generate(tokenAlphabet, 12)
	if err != nil {
		logging.Log.Errorf("META: failed to generate judge token: %v", err)
		return "", err
	}
	return token, nil
}
