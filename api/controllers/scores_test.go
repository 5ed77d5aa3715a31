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

func TestRecordScore(t *testing.T) {
	f := setupFixture(t)
	f.addCompetitor(t, 1, "Alpha")
	f.addCategory(t, 10, "Presentation")
	f.addJudge(t, 1, "JUDGE-1", true)
	f.addJudge(t, 2, "JUDGE-2", false)

	t.Run("happy path records and reports insert", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
			models.RecordScoreRequest{CompetitorID: 1, CategoryID: 10, Value: 8.5}, judgeHeaders("JUDGE-1"))
		require.Equal(t, http.StatusOK, res.Code)

		var body models.ScoreResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.True(t, body.Inserted)
		assert.Equal(t, 1, body.JudgeID)
		assert.InDelta(t, 8.5, body.Value, 1e-9)
	})

	t.Run("resubmission replaces and keeps createdAt", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
			models.RecordScoreRequest{CompetitorID: 1, CategoryID: 10, Value: 9.0}, judgeHeaders("JUDGE-1"))
		require.Equal(t, http.StatusOK, res.Code)

		var body models.ScoreResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.False(t, body.Inserted)
		assert.InDelta(t, 9.0, body.Value, 1e-9)
		assert.True(t, body.UpdatedAt.After(body.CreatedAt) || body.UpdatedAt.Equal(body.CreatedAt))
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
			models.RecordScoreRequest{CompetitorID: 1, CategoryID: 10, Value: 8}, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
			models.RecordScoreRequest{CompetitorID: 1, CategoryID: 10, Value: 8}, judgeHeaders("NOPE"))
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("inactive judge is forbidden", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
			models.RecordScoreRequest{CompetitorID: 1, CategoryID: 10, Value: 8}, judgeHeaders("JUDGE-2"))
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("out of range and over-precise values are rejected", func(t *testing.T) {
		for _, value := range []float64{-1, 10.5, 8.55} {
			res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
				models.RecordScoreRequest{CompetitorID: 1, CategoryID: 10, Value: value}, judgeHeaders("JUDGE-1"))
			assert.Equal(t, http.StatusBadRequest, res.Code, "value %v", value)
		}
	})

	t.Run("unknown competitor or category is rejected", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
			models.RecordScoreRequest{CompetitorID: 99, CategoryID: 10, Value: 8}, judgeHeaders("JUDGE-1"))
		assert.Equal(t, http.StatusBadRequest, res.Code)

		res = apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
			models.RecordScoreRequest{CompetitorID: 1, CategoryID: 99, Value: 8}, judgeHeaders("JUDGE-1"))
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestListScores(t *testing.T) {
	f := setupFixture(t)
	f.addCompetitor(t, 1, "Alpha")
	f.addCompetitor(t, 2, "Beta")
	f.addCategory(t, 10, "Presentation")
	f.addCategory(t, 20, "Technique")
	f.addJudge(t, 1, "JUDGE-1", true)
	f.addJudge(t, 2, "JUDGE-2", true)

	submissions := []models.RecordScoreRequest{
		{CompetitorID: 1, CategoryID: 10, Value: 8},
		{CompetitorID: 1, CategoryID: 20, Value: 7},
		{CompetitorID: 2, CategoryID: 10, Value: 9},
	}
	for _, s := range submissions {
		res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores", s, judgeHeaders("JUDGE-1"))
		require.Equal(t, http.StatusOK, res.Code)
	}
	res := apitesting.PerformRequest(f.router, http.MethodPost, "/api/scores",
		models.RecordScoreRequest{CompetitorID: 1, CategoryID: 10, Value: 6}, judgeHeaders("JUDGE-2"))
	require.Equal(t, http.StatusOK, res.Code)

	decode := func(t *testing.T, res *json.Decoder) []storage.ScoreEntry {
		t.Helper()
		var entries []storage.ScoreEntry
		require.NoError(t, res.Decode(&entries))
		return entries
	}

	t.Run("admin token required", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/scores", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("lists everything", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/scores", nil, adminHeaders())
		require.Equal(t, http.StatusOK, res.Code)
		entries := decode(t, json.NewDecoder(res.Body))
		assert.Len(t, entries, 4)
	})

	t.Run("filters by judge", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/scores?judgeId=2", nil, adminHeaders())
		require.Equal(t, http.StatusOK, res.Code)
		entries := decode(t, json.NewDecoder(res.Body))
		require.Len(t, entries, 1)
		assert.Equal(t, 2, entries[0].JudgeID)
	})

	t.Run("filters by competitor and category", func(t *testing.T) {
		res := apitesting.PerformRequest(f.router, http.MethodGet, "/api/scores?competitorId=1&categoryId=10", nil, adminHeaders())
		require.Equal(t, http.StatusOK, res.Code)
		entries := decode(t, json.NewDecoder(res.Body))
		assert.Len(t, entries, 2)
	})
}
