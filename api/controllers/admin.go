package controllers

import (
	"net/http"

	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/api/transport"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/realtime"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	scoresStorage   storage.ScoreStorage
	sessionsStorage storage.SessionStorage
	hub             *realtime.Hub
}

func NewAdminController(scores storage.ScoreStorage, sessions storage.SessionStorage, hub *realtime.Hub) *AdminController {
	return &AdminController{
		scoresStorage:   scores,
		sessionsStorage: sessions,
		hub:             hub,
	}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin", transport.AdminAuthMiddleware())

	group.POST("/scores/reset", c.resetScores)
}

// @Security AdminToken
// resetScores godoc
// @Summary Wipe the entire score ledger
// @Description Removes every score and bonus entry, e.g. between a rehearsal and the real event
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 409 {object} models.ErrorResponse "A tiebreaker session is still active"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/scores/reset [post]
func (c *AdminController) resetScores(g *gin.Context) {
	// An active tiebreaker would resolve into a bonus on the wiped ledger;
	// it has to be cancelled or resolved first.
	session, err := c.sessionsStorage.GetActive(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to check active session before reset: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if session != nil {
		g.JSON(http.StatusConflict, models.ErrorResponse{Error: "cancel or resolve the active tiebreaker session first"})
		return
	}

	if err := c.scoresStorage.DeleteAll(g.Request.Context()); err != nil {
		logging.Log.Errorf("ADMIN: failed to reset scores: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logging.Log.Info("ADMIN: score ledger wiped")
	c.hub.Notify(realtime.EventScoresReset, "")
	g.JSON(http.StatusOK, gin.H{"message": "All scores reset"})
}
