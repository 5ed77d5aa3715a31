package controllers

import (
	"net/http"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/scoring"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/gin-gonic/gin"
)

type RankingController struct {
	scoresStorage      storage.ScoreStorage
	competitorsStorage storage.CompetitorStorage
	tieTopN            int
	tiePrecision       int
}

func NewRankingController(scoreStorage storage.ScoreStorage, competitorStorage storage.CompetitorStorage,
	tieTopN, tiePrecision int) *RankingController {
	return &RankingController{
		scoresStorage:      scoreStorage,
		competitorsStorage: competitorStorage,
		tieTopN:            tieTopN,
		tiePrecision:       tiePrecision,
	}
}

func (c *RankingController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/api/ranking", c.getRanking)
	engine.GET("/api/ties", c.getTies)
}

// getRanking godoc
// @Summary Current ranking
// @Description Aggregates all recorded scores into ordered standings
// @Tags ranking
// @Produce json
// @Param categoryId query int false "Limit to one category"
// @Param from query string false "Only scores updated at or after (RFC3339)"
// @Param until query string false "Only scores updated at or before (RFC3339)"
// @Success 200 {array} scoring.RankingRow
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/ranking [get]
func (c *RankingController) getRanking(g *gin.Context) {
	filter, ok := c.parseFilter(g)
	if !ok {
		return
	}

	rows, err := c.computeRanking(g, filter)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not compute ranking"})
		return
	}

	logging.Log.Infof("RANKING: computed ranking with %d rows", len(rows))
	g.JSON(http.StatusOK, rows)
}

// getTies godoc
// @Summary Tie groups at the award positions
// @Description Detects competitors sharing a rounded average at the top positions of a fresh ranking
// @Tags ranking
// @Produce json
// @Param topN query int false "Number of award positions to inspect"
// @Success 200 {array} scoring.TieGroup
// @Failure 500 {object} models.ErrorResponse
// @Router /api/ties [get]
func (c *RankingController) getTies(g *gin.Context) {
	rows, err := c.computeRanking(g, scoring.RankingFilter{})
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not compute ranking"})
		return
	}

	topN := queryInt(g, "topN")
	if topN == 0 {
		topN = c.tieTopN
	}

	groups := scoring.DetectTies(rows, topN, c.tiePrecision)
	logging.Log.Infof("RANKING: detected %d tie groups in top %d", len(groups), topN)
	g.JSON(http.StatusOK, groups)
}

func (c *RankingController) computeRanking(g *gin.Context, filter scoring.RankingFilter) ([]scoring.RankingRow, error) {
	entries, err := c.scoresStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RANKING: failed to load scores: %v", err)
		return nil, err
	}
	competitors, err := c.competitorsStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RANKING: failed to load competitors: %v", err)
		return nil, err
	}
	return scoring.ComputeRanking(entries, competitors, filter), nil
}

func (c *RankingController) parseFilter(g *gin.Context) (scoring.RankingFilter, bool) {
	filter := scoring.RankingFilter{CategoryID: queryInt(g, "categoryId")}

	for _, bound := range []struct {
		name   string
		target *time.Time
	}{
		{"from", &filter.From},
		{"until", &filter.Until},
	} {
		raw := g.Query(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid " + bound.name + " timestamp"})
			return filter, false
		}
		*bound.target = t
	}
	return filter, true
}
