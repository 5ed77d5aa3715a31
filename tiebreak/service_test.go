package tiebreak

import (
	"context"
	"testing"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/scoring"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/KernyMC/Reinado2025-sub000/storage/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	logging.Log = logrus.New()

	store := memory.NewStore()
	service := NewService(store.Sessions(), store.TiebreakerVotes(), store.Judges(), store.Resolutions(), Config{
		MinRating:   1,
		MaxRating:   10,
		MaxScore:    10,
		BonusPoints: scoring.BonusSchedule{1: 2, 2: 1.5, 3: 1},
	})
	return service, store
}

func addJudge(t *testing.T, store *memory.Store, id int, active bool) *storage.Judge {
	t.Helper()
	judge := &storage.Judge{ID: id, Name: "Judge", Token: "token", Active: active, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Judges().Create(context.Background(), judge))
	return judge
}

func tieGroup(position int, ids ...int) scoring.TieGroup {
	return scoring.TieGroup{Position: position, Score: 9.5, CompetitorIDs: ids}
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a session with the scheduled bonus", func(t *testing.T) {
		service, _ := newTestService(t)

		session, err := service.Activate(ctx, tieGroup(2, 1, 2), "tie at second place", "admin")
		require.NoError(t, err)
		assert.NotEmpty(t, session.SessionID)
		assert.Equal(t, 2, session.Position)
		assert.Equal(t, []int{1, 2}, session.CompetitorIDs)
		assert.InDelta(t, 1.5, session.BonusPoints, 1e-9)
		assert.Equal(t, storage.SessionStatusActive, session.Status)

		active, err := service.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, session.SessionID, active.SessionID)
	})

	t.Run("second activation is rejected and the first survives", func(t *testing.T) {
		service, _ := newTestService(t)

		first, err := service.Activate(ctx, tieGroup(1, 1, 2), "", "admin")
		require.NoError(t, err)

		_, err = service.Activate(ctx, tieGroup(3, 3, 4), "", "admin")
		assert.ErrorIs(t, err, storage.ErrSessionActive)

		active, err := service.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, first.SessionID, active.SessionID)
		assert.Equal(t, []int{1, 2}, active.CompetitorIDs)
	})

	t.Run("rejects groups with fewer than two competitors", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Activate(ctx, tieGroup(1, 1), "", "admin")
		assert.ErrorIs(t, err, ErrTooFewCompetitors)
	})

	t.Run("position outside the schedule pays no bonus", func(t *testing.T) {
		service, _ := newTestService(t)

		session, err := service.Activate(ctx, tieGroup(5, 1, 2), "", "admin")
		require.NoError(t, err)
		assert.Zero(t, session.BonusPoints)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	session, err := service.Activate(ctx, tieGroup(1, 1, 2), "", "admin")
	require.NoError(t, err)

	t.Run("wrong session id is rejected", func(t *testing.T) {
		assert.ErrorIs(t, service.Cancel(ctx, "bogus"), storage.ErrSessionNotFound)
	})

	t.Run("cancel frees the active slot", func(t *testing.T) {
		require.NoError(t, service.Cancel(ctx, session.SessionID))

		active, err := service.GetActive(ctx)
		require.NoError(t, err)
		assert.Nil(t, active)

		// and a new session can start
		_, err = service.Activate(ctx, tieGroup(1, 1, 2), "", "admin")
		assert.NoError(t, err)
	})
}

func TestRecordVote(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t)
	judge := addJudge(t, store, 1, true)
	inactiveJudge := addJudge(t, store, 2, false)

	session, err := service.Activate(ctx, tieGroup(1, 1, 2), "", "admin")
	require.NoError(t, err)

	t.Run("records a vote for a session member", func(t *testing.T) {
		vote, inserted, err := service.RecordVote(ctx, session.SessionID, judge, 1, 9)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.InDelta(t, 9, vote.Rating, 1e-9)
	})

	t.Run("revote replaces, keeping first CreatedAt", func(t *testing.T) {
		first, _, err := service.RecordVote(ctx, session.SessionID, judge, 2, 7)
		require.NoError(t, err)

		second, inserted, err := service.RecordVote(ctx, session.SessionID, judge, 2, 8)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)

		votes, err := store.TiebreakerVotes().GetBySession(ctx, session.SessionID)
		require.NoError(t, err)
		for _, v := range votes {
			if v.JudgeID == judge.ID && v.CompetitorID == 2 {
				assert.InDelta(t, 8, v.Rating, 1e-9)
			}
		}
	})

	t.Run("inactive judge is rejected", func(t *testing.T) {
		_, _, err := service.RecordVote(ctx, session.SessionID, inactiveJudge, 1, 9)
		assert.ErrorIs(t, err, ErrJudgeNotActive)
	})

	t.Run("rating outside the range is rejected", func(t *testing.T) {
		_, _, err := service.RecordVote(ctx, session.SessionID, judge, 1, 0.5)
		assert.ErrorIs(t, err, ErrRatingOutOfRange)
		_, _, err = service.RecordVote(ctx, session.SessionID, judge, 1, 10.5)
		assert.ErrorIs(t, err, ErrRatingOutOfRange)
	})

	t.Run("competitor outside the tied set is rejected", func(t *testing.T) {
		_, _, err := service.RecordVote(ctx, session.SessionID, judge, 99, 9)
		assert.ErrorIs(t, err, ErrNotSessionMember)
	})

	t.Run("stale session id is rejected", func(t *testing.T) {
		_, _, err := service.RecordVote(ctx, "stale", judge, 1, 9)
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(t)
	j1 := addJudge(t, store, 1, true)
	j2 := addJudge(t, store, 2, true)
	addJudge(t, store, 3, false)

	session, err := service.Activate(ctx, tieGroup(1, 1, 2), "", "admin")
	require.NoError(t, err)

	status, err := service.Status(ctx, session)
	require.NoError(t, err)
	assert.False(t, status.Complete)
	// inactive judge is not expected to vote
	assert.Len(t, status.Judges, 2)

	for _, competitorID := range []int{1, 2} {
		_, _, err = service.RecordVote(ctx, session.SessionID, j1, competitorID, 9)
		require.NoError(t, err)
	}
	status, err = service.Status(ctx, session)
	require.NoError(t, err)
	assert.False(t, status.Complete)

	for _, competitorID := range []int{1, 2} {
		_, _, err = service.RecordVote(ctx, session.SessionID, j2, competitorID, 8)
		require.NoError(t, err)
	}
	status, err = service.Status(ctx, session)
	require.NoError(t, err)
	assert.True(t, status.Complete)
}
