package memory

import (
	"context"

	"github.com/KernyMC/Reinado2025-sub000/storage"
)

// Per-entity views over the shared store, matching the storage interfaces.

func (s *Store) Competitors() storage.CompetitorStorage { return competitorView{s} }
func (s *Store) Categories() storage.CategoryStorage    { return categoryView{s} }
func (s *Store) Judges() storage.JudgeStorage           { return judgeView{s} }
func (s *Store) Scores() storage.ScoreStorage           { return scoreView{s} }
func (s *Store) Sessions() storage.SessionStorage       { return sessionView{s} }
func (s *Store) TiebreakerVotes() storage.TiebreakerVoteStorage {
	return tiebreakerVoteView{s}
}
func (s *Store) Resolutions() storage.ResolutionStorage { return resolutionView{s} }

type competitorView struct{ s *Store }

func (v competitorView) Get(ctx context.Context, id int) (*storage.Competitor, error) {
	return v.s.GetCompetitor(ctx, id)
}
func (v competitorView) GetAll(ctx context.Context) ([]*storage.Competitor, error) {
	return v.s.GetAllCompetitors(ctx)
}
func (v competitorView) Create(ctx context.Context, c *storage.Competitor) error {
	return v.s.CreateCompetitor(ctx, c)
}
func (v competitorView) Update(ctx context.Context, c *storage.Competitor) error {
	return v.s.UpdateCompetitor(ctx, c)
}
func (v competitorView) Delete(ctx context.Context, id int) error {
	return v.s.DeleteCompetitor(ctx, id)
}

type categoryView struct{ s *Store }

func (v categoryView) Get(ctx context.Context, id int) (*storage.Category, error) {
	return v.s.GetCategory(ctx, id)
}
func (v categoryView) GetAll(ctx context.Context) ([]*storage.Category, error) {
	return v.s.GetAllCategories(ctx)
}
func (v categoryView) Create(ctx context.Context, c *storage.Category) error {
	return v.s.CreateCategory(ctx, c)
}
func (v categoryView) Update(ctx context.Context, c *storage.Category) error {
	return v.s.UpdateCategory(ctx, c)
}
func (v categoryView) Delete(ctx context.Context, id int) error {
	return v.s.DeleteCategory(ctx, id)
}

type judgeView struct{ s *Store }

func (v judgeView) Get(ctx context.Context, id int) (*storage.Judge, error) {
	return v.s.GetJudge(ctx, id)
}
func (v judgeView) GetByToken(ctx context.Context, token string) (*storage.Judge, error) {
	return v.s.GetJudgeByToken(ctx, token)
}
func (v judgeView) GetAll(ctx context.Context) ([]*storage.Judge, error) {
	return v.s.GetAllJudges(ctx)
}
func (v judgeView) Create(ctx context.Context, j *storage.Judge) error {
	return v.s.CreateJudge(ctx, j)
}
func (v judgeView) Update(ctx context.Context, j *storage.Judge) error {
	return v.s.UpdateJudge(ctx, j)
}

type scoreView struct{ s *Store }

func (v scoreView) Upsert(ctx context.Context, e *storage.ScoreEntry) (bool, error) {
	return v.s.UpsertScore(ctx, e)
}
func (v scoreView) GetAll(ctx context.Context) ([]*storage.ScoreEntry, error) {
	return v.s.GetAllScores(ctx)
}
func (v scoreView) GetByJudge(ctx context.Context, judgeID int) ([]*storage.ScoreEntry, error) {
	return v.s.GetScoresByJudge(ctx, judgeID)
}
func (v scoreView) DeleteAll(ctx context.Context) error {
	return v.s.DeleteAllScores(ctx)
}

type sessionView struct{ s *Store }

func (v sessionView) PutActive(ctx context.Context, session *storage.TiebreakerSession) error {
	return v.s.PutActiveSession(ctx, session)
}
func (v sessionView) GetActive(ctx context.Context) (*storage.TiebreakerSession, error) {
	return v.s.GetActiveSession(ctx)
}
func (v sessionView) DeleteActive(ctx context.Context, sessionID string) error {
	return v.s.DeleteActiveSession(ctx, sessionID)
}

type tiebreakerVoteView struct{ s *Store }

func (v tiebreakerVoteView) Upsert(ctx context.Context, vote *storage.TiebreakerVote) (bool, error) {
	return v.s.UpsertTiebreakerVote(ctx, vote)
}
func (v tiebreakerVoteView) GetBySession(ctx context.Context, sessionID string) ([]*storage.TiebreakerVote, error) {
	return v.s.GetTiebreakerVotes(ctx, sessionID)
}

type resolutionView struct{ s *Store }

func (v resolutionView) Commit(ctx context.Context, record *storage.ResolutionRecord, bonus *storage.ScoreEntry) error {
	return v.s.CommitResolution(ctx, record, bonus)
}
func (v resolutionView) GetAll(ctx context.Context) ([]*storage.ResolutionRecord, error) {
	return v.s.GetAllResolutions(ctx)
}
