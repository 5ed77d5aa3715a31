package tiebreak

import (
	"context"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/storage"
)

// Resolve finishes an active session: it averages the supplementary votes,
// names the strictly best competitor the winner, writes a capped bonus entry
// and the immutable resolution record, and frees the active slot. The final
// write is a single transaction, so a failure anywhere leaves the session
// active and retryable.
//
// currentAverages are the winner candidates' pre-bonus ranking averages; they
// cap the bonus so no aggregate can pass MaxScore.
func (s *Service) Resolve(ctx context.Context, sessionID, resolvedBy string, currentAverages map[int]float64) (*storage.ResolutionRecord, error) {
	session, err := s.sessions.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil || session.SessionID != sessionID {
		return nil, storage.ErrSessionNotFound
	}

	// One snapshot of roster and votes for both the completion gate and the
	// averages, so a judge deactivated mid-read cannot skew the result.
	judges, err := s.judges.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.GetBySession(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}

	if !buildStatus(session, judges, votes).Complete {
		return nil, ErrVotingIncomplete
	}

	activeJudges := make(map[int]bool, len(judges))
	for _, j := range judges {
		if j.Active {
			activeJudges[j.ID] = true
		}
	}

	totals := make(map[int]float64)
	counts := make(map[int]int)
	for _, v := range votes {
		if !activeJudges[v.JudgeID] || !session.HasCompetitor(v.CompetitorID) {
			continue
		}
		totals[v.CompetitorID] += v.Rating
		counts[v.CompetitorID]++
	}

	averages := make([]storage.CompetitorAverage, 0, len(session.CompetitorIDs))
	winnerID := 0
	best := -1.0
	tied := false
	for _, id := range session.CompetitorIDs {
		avg := 0.0
		if counts[id] > 0 {
			avg = totals[id] / float64(counts[id])
		}
		averages = append(averages, storage.CompetitorAverage{CompetitorID: id, Average: avg})
		switch {
		case avg > best:
			best, winnerID, tied = avg, id, false
		case avg == best:
			tied = true
		}
	}
	if tied {
		logging.Log.Warnf("TIEBREAK: session %s votes are tied at %.3f, refusing to pick a winner", sessionID, best)
		return nil, ErrUnresolvedTie
	}

	bonus := session.BonusPoints
	if headroom := s.config.MaxScore - currentAverages[winnerID]; bonus > headroom {
		bonus = headroom
	}
	if bonus < 0 {
		bonus = 0
	}

	now := time.Now().UTC()
	record := &storage.ResolutionRecord{
		SessionID:     session.SessionID,
		Position:      session.Position,
		Description:   session.Description,
		CompetitorIDs: session.CompetitorIDs,
		Averages:      averages,
		WinnerID:      winnerID,
		BonusApplied:  bonus,
		ResolvedBy:    resolvedBy,
		ResolvedAt:    now,
	}
	bonusEntry := storage.NewBonusEntry(session.SessionID, winnerID, bonus, now)

	if err := s.resolutions.Commit(ctx, record, bonusEntry); err != nil {
		return nil, err
	}

	logging.Log.Infof("TIEBREAK: resolved session %s, winner %d with bonus %.2f", sessionID, winnerID, bonus)
	return record, nil
}

func (s *Service) Resolutions(ctx context.Context) ([]*storage.ResolutionRecord, error) {
	return s.resolutions.GetAll(ctx)
}
