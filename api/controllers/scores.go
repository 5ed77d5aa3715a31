package controllers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/api/transport"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/realtime"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/gin-gonic/gin"
)

type ScoreController struct {
	scoresStorage      storage.ScoreStorage
	competitorsStorage storage.CompetitorStorage
	categoriesStorage  storage.CategoryStorage
	judgesStorage      storage.JudgeStorage
	hub                *realtime.Hub
	minScore           float64
	maxScore           float64
}

func NewScoreController(scoreStorage storage.ScoreStorage, competitorStorage storage.CompetitorStorage,
	categoryStorage storage.CategoryStorage, judgeStorage storage.JudgeStorage,
	hub *realtime.Hub, minScore, maxScore float64) *ScoreController {
	return &ScoreController{
		scoresStorage:      scoreStorage,
		competitorsStorage: competitorStorage,
		categoriesStorage:  categoryStorage,
		judgesStorage:      judgeStorage,
		hub:                hub,
		minScore:           minScore,
		maxScore:           maxScore,
	}
}

func (c *ScoreController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/api/scores", transport.JudgeAuthMiddleware(c.judgesStorage), c.recordScore)
	engine.GET("/api/scores", transport.AdminAuthMiddleware(), c.listScores)
}

// recordScore godoc
// @Summary Record a judge score
// @Description Upserts the calling judge's score for a competitor in a category
// @Tags scoring
// @Accept json
// @Produce json
// @Param score body models.RecordScoreRequest true "Score submission"
// @Success 200 {object} models.ScoreResponse
// @Failure 400 {object} models.ErrorResponse "Invalid score data"
// @Failure 401 {object} models.ErrorResponse "Missing or unknown judge token"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/scores [post]
func (c *ScoreController) recordScore(g *gin.Context) {
	var req models.RecordScoreRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	if req.Value < c.minScore || req.Value > c.maxScore {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "score value is out of range"})
		return
	}
	// One decimal of precision, the scale judges actually score on.
	if math.Abs(req.Value*10-math.Round(req.Value*10)) > 1e-9 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "score value allows at most one decimal"})
		return
	}

	competitor, err := c.competitorsStorage.Get(g.Request.Context(), req.CompetitorID)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load competitor"})
		return
	}
	if competitor == nil || !competitor.Active {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "competitor not found or inactive"})
		return
	}

	category, err := c.categoriesStorage.Get(g.Request.Context(), req.CategoryID)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load category"})
		return
	}
	if category == nil || !category.Active {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "category not found or inactive"})
		return
	}

	judge := g.MustGet(transport.ContextJudgeKey).(*storage.Judge)
	entry := storage.NewJudgeScore(judge.ID, req.CompetitorID, req.CategoryID, req.Value, time.Now().UTC())

	inserted, err := c.scoresStorage.Upsert(g.Request.Context(), entry)
	if err != nil {
		logging.Log.Errorf("SCORE: failed to upsert score: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save score"})
		return
	}

	logging.Log.Infof("SCORE: judge %d scored competitor %d in category %d: %.1f (inserted=%t)",
		judge.ID, req.CompetitorID, req.CategoryID, req.Value, inserted)
	c.hub.Notify(realtime.EventScoreRecorded, "")

	g.JSON(http.StatusOK, models.TransformScoreFromStorage(entry, inserted))
}

// listScores godoc
// @Security AdminToken
// @Summary List recorded scores
// @Description Audit listing, optionally filtered by judge, competitor or category
// @Tags scoring
// @Produce json
// @Param judgeId query int false "Judge ID"
// @Param competitorId query int false "Competitor ID"
// @Param categoryId query int false "Category ID"
// @Success 200 {array} storage.ScoreEntry
// @Failure 500 {object} models.ErrorResponse
// @Router /api/scores [get]
func (c *ScoreController) listScores(g *gin.Context) {
	var entries []*storage.ScoreEntry
	var err error

	if judgeID := queryInt(g, "judgeId"); judgeID != 0 {
		entries, err = c.scoresStorage.GetByJudge(g.Request.Context(), judgeID)
	} else {
		entries, err = c.scoresStorage.GetAll(g.Request.Context())
	}
	if err != nil {
		logging.Log.Errorf("SCORE: failed to list scores: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list scores"})
		return
	}

	competitorID := queryInt(g, "competitorId")
	categoryID := queryInt(g, "categoryId")

	filtered := make([]*storage.ScoreEntry, 0, len(entries))
	for _, e := range entries {
		if competitorID != 0 && e.CompetitorID != competitorID {
			continue
		}
		if categoryID != 0 && e.CategoryID != categoryID {
			continue
		}
		filtered = append(filtered, e)
	}

	logging.Log.Infof("SCORE: listed %d score entries", len(filtered))
	g.JSON(http.StatusOK, filtered)
}

func queryInt(g *gin.Context, name string) int {
	raw := g.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
