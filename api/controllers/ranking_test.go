package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	apitesting "github.com/KernyMC/Reinado2025-sub000/api/controllers/testing"
	"github.com/KernyMC/Reinado2025-sub000/api/models"
	"github.com/KernyMC/Reinado2025-sub000/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitScore(t *testing.T, f *fixture, token string, competitorID, categoryID int, value float64) {
	t.Helper()
	res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
		models.RecordScoreRequest{CompetitorID: competitorID, CategoryID: categoryID, Value: value}, judgeHeaders(token))
	require.Equal(t, http.StatusOK, res.Code)
}

func TestGetRanking(t *testing.T) {
	f := setupFixture(t)
	f.addCompetitor(t, 1, "Alpha")
	f.addCompetitor(t, 2, "Beta")
	f.addCompetitor(t, 3, "Gamma")
	f.addCategory(t, 10, "Presentation")
	f.addCategory(t, 20, "Technique")
	f.addJudge(t, 1, "JUDGE-1", true)

	submitScore(t, f, "JUDGE-1", 1, 10, 9)
	submitScore(t, f, "JUDGE-1", 1, 20, 8)
	submitScore(t, f, "JUDGE-1", 2, 10, 9.5)

	t.Run("full ranking is public and ordered", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/ranking", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var rows []scoring.RankingRow
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &rows))
		require.Len(t, rows, 2) // Gamma has no scores

		assert.Equal(t, 2, rows[0].CompetitorID)
		assert.InDelta(t, 9.5, rows[0].AverageScore, 1e-9)
		assert.Equal(t, 1, rows[1].CompetitorID)
		assert.InDelta(t, 8.5, rows[1].AverageScore, 1e-9)
	})

	t.Run("category filter narrows the ledger", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/ranking?categoryId=20", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var rows []scoring.RankingRow
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].CompetitorID)
		assert.InDelta(t, 8, rows[0].AverageScore, 1e-9)
	})

	t.Run("bad timestamp filter is rejected", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/ranking?from=yesterday", nil, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestGetTies(t *testing.T) {
	f := setupFixture(t)
	f.addCompetitor(t, 1, "Alpha")
	f.addCompetitor(t, 2, "Beta")
	f.addCompetitor(t, 3, "Gamma")
	f.addCategory(t, 10, "Presentation")
	f.addJudge(t, 1, "JUDGE-1", true)

	submitScore(t, f, "JUDGE-1", 1, 10, 9.5)
	submitScore(t, f, "JUDGE-1", 2, 10, 9.5)
	submitScore(t, f, "JUDGE-1", 3, 10, 9.3)

	res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/ties", nil, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var groups []scoring.TieGroup
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].Position)
	assert.Equal(t, []int{1, 2}, groups[0].CompetitorIDs)

	t.Run("topN=1 still finds the same leading group", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/ties?topN=1", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		var groups []scoring.TieGroup
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &groups))
		assert.Len(t, groups, 1)
	})
}
