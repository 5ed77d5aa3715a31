// Package tiebreak owns the tiebreaker lifecycle: the single active session,
// the supplementary vote ledger and the resolution that turns a finished
// session into an archived outcome plus a bonus on the score ledger.
package tiebreak

import (
	"context"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/scoring"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Config carries the engine knobs left open by the competition rules: the
// supplementary vote range and the bonus paid per contested position.
type Config struct {
	MinRating   float64
	MaxRating   float64
	MaxScore    float64
	BonusPoints scoring.BonusSchedule
}

type Service struct {
	sessions    storage.SessionStorage
	votes       storage.TiebreakerVoteStorage
	judges      storage.JudgeStorage
	resolutions storage.ResolutionStorage
	config      Config
}

func NewService(sessions storage.SessionStorage, votes storage.TiebreakerVoteStorage,
	judges storage.JudgeStorage, resolutions storage.ResolutionStorage, config Config) *Service {
	return &Service{
		sessions:    sessions,
		votes:       votes,
		judges:      judges,
		resolutions: resolutions,
		config:      config,
	}
}

// Activate opens a tiebreaker for a detected tie group. The storage layer's
// conditional put enforces the one-active-session rule, so concurrent admins
// cannot both succeed; the loser gets storage.ErrSessionActive.
func (s *Service) Activate(ctx context.Context, group scoring.TieGroup, description, activatedBy string) (*storage.TiebreakerSession, error) {
	if len(group.CompetitorIDs) < 2 {
		return nil, ErrTooFewCompetitors
	}

	sessionID, err := gonanoid.New()
	if err != nil {
		logging.Log.Errorf("TIEBREAK: failed to generate session ID: %v", err)
		return nil, err
	}

	session := &storage.TiebreakerSession{
		SessionID:     sessionID,
		Position:      group.Position,
		Description:   description,
		CompetitorIDs: group.CompetitorIDs,
		BonusPoints:   s.config.BonusPoints.ForPosition(group.Position),
		Status:        storage.SessionStatusActive,
		CreatedBy:     activatedBy,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.sessions.PutActive(ctx, session); err != nil {
		return nil, err
	}

	logging.Log.Infof("TIEBREAK: activated session %s for position %d with %d competitors",
		session.SessionID, session.Position, len(session.CompetitorIDs))
	return session, nil
}

func (s *Service) GetActive(ctx context.Context) (*storage.TiebreakerSession, error) {
	return s.sessions.GetActive(ctx)
}

// Cancel discards an active session without producing a resolution record.
func (s *Service) Cancel(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteActive(ctx, sessionID); err != nil {
		return err
	}
	logging.Log.Infof("TIEBREAK: cancelled session %s", sessionID)
	return nil
}

// RecordVote upserts one supplementary vote. Only active judges may vote,
// only for competitors inside the session's tied set, and only within the
// configured rating range.
func (s *Service) RecordVote(ctx context.Context, sessionID string, judge *storage.Judge, competitorID int, rating float64) (*storage.TiebreakerVote, bool, error) {
	if !judge.Active {
		return nil, false, ErrJudgeNotActive
	}
	if rating < s.config.MinRating || rating > s.config.MaxRating {
		return nil, false, ErrRatingOutOfRange
	}

	session, err := s.sessions.GetActive(ctx)
	if err != nil {
		return nil, false, err
	}
	if session == nil || session.SessionID != sessionID {
		return nil, false, storage.ErrSessionNotFound
	}
	if !session.HasCompetitor(competitorID) {
		return nil, false, ErrNotSessionMember
	}

	vote := storage.NewTiebreakerVote(sessionID, judge.ID, competitorID, rating, time.Now().UTC())
	inserted, err := s.votes.Upsert(ctx, vote)
	if err != nil {
		return nil, false, err
	}
	return vote, inserted, nil
}

// VotingStatus reports, per judge, how many of the session's competitors they
// have voted on. Judges and votes are read once so the completion answer is
// consistent even if a judge is deactivated mid-session.
type VotingStatus struct {
	Complete bool                `json:"complete"`
	Judges   []JudgeVotingStatus `json:"judges"`
}

type JudgeVotingStatus struct {
	JudgeID   int    `json:"judgeId"`
	JudgeName string `json:"judgeName"`
	Voted     int    `json:"voted"`
	Expected  int    `json:"expected"`
}

func (s *Service) Status(ctx context.Context, session *storage.TiebreakerSession) (*VotingStatus, error) {
	judges, err := s.judges.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.GetBySession(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	return buildStatus(session, judges, votes), nil
}

func buildStatus(session *storage.TiebreakerSession, judges []*storage.Judge, votes []*storage.TiebreakerVote) *VotingStatus {
	voted := make(map[int]map[int]bool)
	for _, v := range votes {
		if voted[v.JudgeID] == nil {
			voted[v.JudgeID] = make(map[int]bool)
		}
		if session.HasCompetitor(v.CompetitorID) {
			voted[v.JudgeID][v.CompetitorID] = true
		}
	}

	status := &VotingStatus{Complete: true}
	for _, j := range judges {
		if !j.Active {
			continue
		}
		entry := JudgeVotingStatus{
			JudgeID:   j.ID,
			JudgeName: j.Name,
			Voted:     len(voted[j.ID]),
			Expected:  len(session.CompetitorIDs),
		}
		if entry.Voted < entry.Expected {
			status.Complete = false
		}
		status.Judges = append(status.Judges, entry)
	}
	return status
}
