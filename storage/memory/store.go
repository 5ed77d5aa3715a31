// Package memory holds an in-memory implementation of every storage
// interface. It backs the local development mode and the test suites, with
// the same upsert and compare-and-set semantics as the DynamoDB stores.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/KernyMC/Reinado2025-sub000/storage"
)

type Store struct {
	mu sync.RWMutex

	competitors map[int]storage.Competitor
	categories  map[int]storage.Category
	judges      map[int]storage.Judge
	scores      map[string]storage.ScoreEntry
	votes       map[string]storage.TiebreakerVote
	resolutions map[string]storage.ResolutionRecord
	active      *storage.TiebreakerSession
}

func NewStore() *Store {
	return &Store{
		competitors: make(map[int]storage.Competitor),
		categories:  make(map[int]storage.Category),
		judges:      make(map[int]storage.Judge),
		scores:      make(map[string]storage.ScoreEntry),
		votes:       make(map[string]storage.TiebreakerVote),
		resolutions: make(map[string]storage.ResolutionRecord),
	}
}

// Competitors

func (s *Store) GetCompetitor(_ context.Context, id int) (*storage.Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.competitors[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) GetAllCompetitors(_ context.Context) ([]*storage.Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*storage.Competitor, 0, len(s.competitors))
	for _, c := range s.competitors {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) CreateCompetitor(_ context.Context, competitor *storage.Competitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.competitors[competitor.ID]; ok {
		return storage.ErrItemWithIDAlreadyExists
	}
	s.competitors[competitor.ID] = *competitor
	return nil
}

func (s *Store) UpdateCompetitor(_ context.Context, competitor *storage.Competitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.competitors[competitor.ID] = *competitor
	return nil
}

func (s *Store) DeleteCompetitor(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.competitors, id)
	return nil
}

// Categories

func (s *Store) GetCategory(_ context.Context, id int) (*storage.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) GetAllCategories(_ context.Context) ([]*storage.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*storage.Category, 0, len(s.categories))
	for _, c := range s.categories {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, category *storage.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[category.ID]; ok {
		return storage.ErrItemWithIDAlreadyExists
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, category *storage.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, id)
	return nil
}

// Judges

func (s *Store) GetJudge(_ context.Context, id int) (*storage.Judge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.judges[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (s *Store) GetJudgeByToken(_ context.Context, token string) (*storage.Judge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.judges {
		if j.Token == token {
			j := j
			return &j, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetAllJudges(_ context.Context) ([]*storage.Judge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*storage.Judge, 0, len(s.judges))
	for _, j := range s.judges {
		j := j
		out = append(out, &j)
	}
	return out, nil
}

func (s *Store) CreateJudge(_ context.Context, judge *storage.Judge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.judges[judge.ID]; ok {
		return storage.ErrItemWithIDAlreadyExists
	}
	s.judges[judge.ID] = *judge
	return nil
}

func (s *Store) UpdateJudge(_ context.Context, judge *storage.Judge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.judges[judge.ID] = *judge
	return nil
}

// Score ledger

func (s *Store) UpsertScore(_ context.Context, entry *storage.ScoreEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entry.PK + "|" + entry.SK
	previous, existed := s.scores[key]
	if existed {
		entry.CreatedAt = previous.CreatedAt
	}
	s.scores[key] = *entry
	return !existed, nil
}

func (s *Store) GetAllScores(_ context.Context) ([]*storage.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*storage.ScoreEntry, 0, len(s.scores))
	for _, e := range s.scores {
		e := e
		out = append(out, &e)
	}
	return out, nil
}

func (s *Store) GetScoresByJudge(_ context.Context, judgeID int) ([]*storage.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pk := fmt.Sprintf("judge#%d", judgeID)
	var out []*storage.ScoreEntry
	for _, e := range s.scores {
		if e.PK == pk {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (s *Store) DeleteAllScores(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = make(map[string]storage.ScoreEntry)
	return nil
}

// Tiebreaker sessions

func (s *Store) PutActiveSession(_ context.Context, session *storage.TiebreakerSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return storage.ErrSessionActive
	}
	session.Slot = storage.ActiveSlotKey
	copied := *session
	s.active = &copied
	return nil
}

func (s *Store) GetActiveSession(_ context.Context) (*storage.TiebreakerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, nil
	}
	copied := *s.active
	return &copied, nil
}

func (s *Store) DeleteActiveSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.SessionID != sessionID {
		return storage.ErrSessionNotFound
	}
	s.active = nil
	return nil
}

// Tiebreaker votes

func (s *Store) UpsertTiebreakerVote(_ context.Context, vote *storage.TiebreakerVote) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s|judge#%d#comp#%d", vote.SessionID, vote.JudgeID, vote.CompetitorID)
	previous, existed := s.votes[key]
	if existed {
		vote.CreatedAt = previous.CreatedAt
	}
	s.votes[key] = *vote
	return !existed, nil
}

func (s *Store) GetTiebreakerVotes(_ context.Context, sessionID string) ([]*storage.TiebreakerVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*storage.TiebreakerVote
	for _, v := range s.votes {
		if v.SessionID == sessionID {
			v := v
			out = append(out, &v)
		}
	}
	return out, nil
}

// Resolutions

func (s *Store) CommitResolution(_ context.Context, record *storage.ResolutionRecord, bonus *storage.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.SessionID != record.SessionID {
		return storage.ErrSessionNotFound
	}
	if _, ok := s.resolutions[record.SessionID]; ok {
		return storage.ErrSessionNotFound
	}
	s.resolutions[record.SessionID] = *record
	s.scores[bonus.PK+"|"+bonus.SK] = *bonus
	s.active = nil
	return nil
}

func (s *Store) GetAllResolutions(_ context.Context) ([]*storage.ResolutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*storage.ResolutionRecord, 0, len(s.resolutions))
	for _, r := range s.resolutions {
		r := r
		out = append(out, &r)
	}
	return out, nil
}
