package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/api/transport"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/realtime"
	"github.com/KernyMC/Reinado2025-sub000/scoring"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/KernyMC/Reinado2025-sub000/storage/memory"
	"github.com/KernyMC/Reinado2025-sub000/tiebreak"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "secret"

type fixture struct {
	router  *gin.Engine
	store   *memory.Store
	service *tiebreak.Service
}

// setupFixture wires every controller against the in-memory store, the same
// shape the server builds for the dynamo driver.
func setupFixture(t *testing.T) *fixture {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	store := memory.NewStore()
	hub := realtime.NewHub()
	go hub.Run()

	service := tiebreak.NewService(store.Sessions(), store.TiebreakerVotes(), store.Judges(), store.Resolutions(), tiebreak.Config{
		MinRating:   1,
		MaxRating:   10,
		MaxScore:    10,
		BonusPoints: scoring.BonusSchedule{1: 2, 2: 1.5, 3: 1},
	})

	r := transport.NewRouter(gin.TestMode)
	NewScoreController(store.Scores(), store.Competitors(), store.Categories(), store.Judges(), hub, 0, 10).RegisterRoutes(r)
	NewRankingController(store.Scores(), store.Competitors(), 3, 3).RegisterRoutes(r)
	NewTiebreakerController(service, store.Scores(), store.Competitors(), store.Judges(), hub).RegisterRoutes(r)
	NewCompetitorMetaController(store.Competitors(), store.Scores()).RegisterRoutes(r)
	NewCategoryMetaController(store.Categories()).RegisterRoutes(r)
	NewJudgeMetaController(store.Judges()).RegisterRoutes(r)
	NewAdminController(store.Scores(), store.Sessions(), hub).RegisterRoutes(r)

	return &fixture{router: r, store: store, service: service}
}

func (f *fixture) addCompetitor(t *testing.T, id int, name string) {
	t.Helper()
	err := f.store.Competitors().Create(context.Background(), &storage.Competitor{ID: id, Name: name, Active: true})
	require.NoError(t, err)
}

func (f *fixture) addCategory(t *testing.T, id int, name string) {
	t.Helper()
	err := f.store.Categories().Create(context.Background(), &storage.Category{ID: id, Name: name, Weight: 50, Active: true})
	require.NoError(t, err)
}

func (f *fixture) addJudge(t *testing.T, id int, token string, active bool) {
	t.Helper()
	err := f.store.Judges().Create(context.Background(), &storage.Judge{
		ID: id, Name: "Judge", Token: token, Active: active, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func adminHeaders() map[string]string {
	return map[string]string{"x-admin-token": testAdminToken}
}

func judgeHeaders(token string) map[string]string {
	return map[string]string{"x-judge-token": token}
}
