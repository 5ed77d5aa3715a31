package controllers

import (
	"errors"
	"net/http"

	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/api/transport"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/realtime"
	"github.com/KernyMC/Reinado2025-sub000/scoring"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/KernyMC/Reinado2025-sub000/tiebreak"
	"github.com/gin-gonic/gin"
)

type TiebreakerController struct {
	service            *tiebreak.Service
	scoresStorage      storage.ScoreStorage
	competitorsStorage storage.CompetitorStorage
	judgesStorage      storage.JudgeStorage
	hub                *realtime.Hub
}

func NewTiebreakerController(service *tiebreak.Service, scoreStorage storage.ScoreStorage,
	competitorStorage storage.CompetitorStorage, judgeStorage storage.JudgeStorage,
	hub *realtime.Hub) *TiebreakerController {
	return &TiebreakerController{
		service:            service,
		scoresStorage:      scoreStorage,
		competitorsStorage: competitorStorage,
		judgesStorage:      judgeStorage,
		hub:                hub,
	}
}

func (c *TiebreakerController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/tiebreaker")

	group.GET("/active", c.getActive)
	group.POST("/vote", transport.JudgeAuthMiddleware(c.judgesStorage), c.registerVote)
	group.POST("/activate", transport.AdminAuthMiddleware(), c.activate)
	group.POST("/resolve", transport.AdminAuthMiddleware(), c.resolve)
	group.POST("/cancel", transport.AdminAuthMiddleware(), c.cancel)
	group.GET("/resolutions", transport.AdminAuthMiddleware(), c.listResolutions)
}

// activate godoc
// @Security AdminToken
// @Summary Activate a tiebreaker session
// @Description Opens a supplementary voting round for a tied group of competitors
// @Tags tiebreaker
// @Accept json
// @Produce json
// @Param request body models.ActivateTiebreakerRequest true "Tied group"
// @Success 200 {object} models.TiebreakerSessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "A session is already active"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/tiebreaker/activate [post]
func (c *TiebreakerController) activate(g *gin.Context) {
	var req models.ActivateTiebreakerRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Position < 1 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing position or competitors"})
		return
	}

	for _, id := range req.CompetitorIDs {
		competitor, err := c.competitorsStorage.Get(g.Request.Context(), id)
		if err != nil {
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load competitor"})
			return
		}
		if competitor == nil || !competitor.Active {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "tie group contains an unknown or inactive competitor"})
			return
		}
	}

	group := scoring.TieGroup{Position: req.Position, CompetitorIDs: req.CompetitorIDs}
	session, err := c.service.Activate(g.Request.Context(), group, req.Description, adminActor(g))
	if err != nil {
		switch {
		case errors.Is(err, tiebreak.ErrTooFewCompetitors):
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, storage.ErrSessionActive):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "a tiebreaker session is already active"})
		default:
			logging.Log.Errorf("TIEBREAK: failed to activate session: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not activate session"})
		}
		return
	}

	c.hub.Notify(realtime.EventTiebreakActivated, session.SessionID)
	g.JSON(http.StatusOK, models.TransformSessionFromStorage(session, nil))
}

// getActive godoc
// @Summary Current tiebreaker session
// @Description Returns the active session with per-judge voting progress, or null
// @Tags tiebreaker
// @Produce json
// @Success 200 {object} models.TiebreakerSessionResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/tiebreaker/active [get]
func (c *TiebreakerController) getActive(g *gin.Context) {
	session, err := c.service.GetActive(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("TIEBREAK: failed to load active session: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load active session"})
		return
	}
	if session == nil {
		g.JSON(http.StatusOK, nil)
		return
	}

	status, err := c.service.Status(g.Request.Context(), session)
	if err != nil {
		logging.Log.Errorf("TIEBREAK: failed to compute voting status: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not compute voting status"})
		return
	}
	g.JSON(http.StatusOK, models.TransformSessionFromStorage(session, status))
}

// registerVote godoc
// @Summary Record a supplementary vote
// @Description Upserts the calling judge's tiebreaker vote for a tied competitor
// @Tags tiebreaker
// @Accept json
// @Produce json
// @Param vote body models.TiebreakerVoteRequest true "Vote submission"
// @Success 200 {object} models.TiebreakerVoteResponse
// @Failure 400 {object} models.ErrorResponse "Out-of-range rating or non-member competitor"
// @Failure 404 {object} models.ErrorResponse "No such active session"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/tiebreaker/vote [post]
func (c *TiebreakerController) registerVote(g *gin.Context) {
	var req models.TiebreakerVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	judge := g.MustGet(transport.ContextJudgeKey).(*storage.Judge)
	vote, inserted, err := c.service.RecordVote(g.Request.Context(), req.SessionID, judge, req.CompetitorID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, tiebreak.ErrRatingOutOfRange), errors.Is(err, tiebreak.ErrNotSessionMember):
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, tiebreak.ErrJudgeNotActive):
			g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, storage.ErrSessionNotFound):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no active session with that ID"})
		default:
			logging.Log.Errorf("TIEBREAK: failed to record vote: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save vote"})
		}
		return
	}

	g.JSON(http.StatusOK, models.TiebreakerVoteResponse{
		SessionID:    vote.SessionID,
		JudgeID:      vote.JudgeID,
		CompetitorID: vote.CompetitorID,
		Rating:       vote.Rating,
		Inserted:     inserted,
		UpdatedAt:    vote.UpdatedAt,
	})
}

// resolve godoc
// @Security AdminToken
// @Summary Resolve the active tiebreaker session
// @Description Averages supplementary votes, applies the winner's bonus and archives the outcome
// @Tags tiebreaker
// @Accept json
// @Produce json
// @Param request body models.ResolveTiebreakerRequest true "Session to resolve"
// @Success 200 {object} storage.ResolutionRecord
// @Failure 404 {object} models.ErrorResponse "No such active session"
// @Failure 409 {object} models.ErrorResponse "Voting incomplete or votes tied"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/tiebreaker/resolve [post]
func (c *TiebreakerController) resolve(g *gin.Context) {
	var req models.ResolveTiebreakerRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	averages, err := c.currentAverages(g)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not compute current ranking"})
		return
	}

	record, err := c.service.Resolve(g.Request.Context(), req.SessionID, adminActor(g), averages)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrSessionNotFound):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no active session with that ID"})
		case errors.Is(err, tiebreak.ErrVotingIncomplete):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, tiebreak.ErrUnresolvedTie):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
		default:
			logging.Log.Errorf("TIEBREAK: failed to resolve session: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not resolve session"})
		}
		return
	}

	c.hub.Notify(realtime.EventTiebreakResolved, record.SessionID)
	g.JSON(http.StatusOK, record)
}

// cancel godoc
// @Security AdminToken
// @Summary Cancel the active tiebreaker session
// @Description Discards the session without an outcome, e.g. to re-run scoring
// @Tags tiebreaker
// @Accept json
// @Produce json
// @Param request body models.CancelTiebreakerRequest true "Session to cancel"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/tiebreaker/cancel [post]
func (c *TiebreakerController) cancel(g *gin.Context) {
	var req models.CancelTiebreakerRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	if err := c.service.Cancel(g.Request.Context(), req.SessionID); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no active session with that ID"})
			return
		}
		logging.Log.Errorf("TIEBREAK: failed to cancel session: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not cancel session"})
		return
	}

	c.hub.Notify(realtime.EventTiebreakCancelled, req.SessionID)
	g.JSON(http.StatusOK, gin.H{"cancelled": req.SessionID})
}

// listResolutions godoc
// @Security AdminToken
// @Summary List archived tiebreaker outcomes
// @Tags tiebreaker
// @Produce json
// @Success 200 {array} storage.ResolutionRecord
// @Failure 500 {object} models.ErrorResponse
// @Router /api/tiebreaker/resolutions [get]
func (c *TiebreakerController) listResolutions(g *gin.Context) {
	records, err := c.service.Resolutions(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("TIEBREAK: failed to list resolutions: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list resolutions"})
		return
	}
	logging.Log.Infof("TIEBREAK: listed %d resolutions", len(records))
	g.JSON(http.StatusOK, records)
}

// currentAverages feeds the resolver the pre-bonus averages it needs to cap
// the winner's bonus at the top of the scale.
func (c *TiebreakerController) currentAverages(g *gin.Context) (map[int]float64, error) {
	entries, err := c.scoresStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("TIEBREAK: failed to load scores: %v", err)
		return nil, err
	}
	competitors, err := c.competitorsStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("TIEBREAK: failed to load competitors: %v", err)
		return nil, err
	}

	averages := make(map[int]float64)
	for _, row := range scoring.ComputeRanking(entries, competitors, scoring.RankingFilter{}) {
		averages[row.CompetitorID] = row.AverageScore
	}
	return averages, nil
}

// adminActor labels audit fields; admin identity is a shared token, so the
// best available label is the token holder role itself.
func adminActor(g *gin.Context) string {
	if actor := g.GetHeader("x-actor"); actor != "" {
		return actor
	}
	return "admin"
}
