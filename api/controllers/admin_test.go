package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	apitesting "github.com/KernyMC/Reinado2025-sub000/api/controllers/testing"
	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetScores(t *testing.T) {
	f := setupFixture(t)
	f.addCompetitor(t, 1, "Alpha")
	f.addCompetitor(t, 2, "Beta")
	f.addCategory(t, 10, "Presentation")
	f.addJudge(t, 1, "JUDGE-1", true)

	submitScore(t, f, "JUDGE-1", 1, 10, 8)
	submitScore(t, f, "JUDGE-1", 2, 10, 9)

	t.Run("reset requires the admin token", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/admin/scores/reset", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("reset is blocked while a tiebreaker is active", func(t *testing.T) {
		session := activateSession(t, f, 1, 1, 2)

		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/admin/scores/reset", nil, adminHeaders())
		assert.Equal(t, http.StatusConflict, res.Code)

		// the ledger survived the refused reset
		listRes := apitesting.PerformRequest(f.router, http.MethodGet, "/api/scores", nil, adminHeaders())
		require.Equal(t, http.StatusOK, listRes.Code)
		var entries []storage.ScoreEntry
		require.NoError(t, json.Unmarshal(listRes.Body.Bytes(), &entries))
		assert.Len(t, entries, 2)

		cancelRes := apitesting.PerformRequest(f.router, http.MethodPost, "/api/tiebreaker/cancel",
			models.CancelTiebreakerRequest{SessionID: session.SessionID}, adminHeaders())
		require.Equal(t, http.StatusOK, cancelRes.Code)
	})

	t.Run("reset wipes the whole ledger", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/admin/scores/reset", nil, adminHeaders())
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		listRes := apitesting.PerformRequest(f.router, http.MethodGet, "/api/scores", nil, adminHeaders())
		require.Equal(t, http.StatusOK, listRes.Code)
		var entries []storage.ScoreEntry
		require.NoError(t, json.Unmarshal(listRes.Body.Bytes(), &entries))
		assert.Empty(t, entries)

		rankRes := apitesting.PerformRequest(f.router, http.MethodGet, "/api/ranking", nil, nil)
		require.Equal(t, http.StatusOK, rankRes.Code)
		assert.Equal(t, "[]", rankRes.Body.String())
	})
}
