package models

import (
	"time"

	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/KernyMC/Reinado2025-sub000/tiebreak"
)

type ActivateTiebreakerRequest struct {
	Position      int    `json:"position"`
	CompetitorIDs []int  `json:"competitorIds"`
	Description   string `json:"description"`
}

type TiebreakerSessionResponse struct {
	SessionID     string                 `json:"sessionId"`
	Position      int                    `json:"position"`
	Description   string                 `json:"description"`
	CompetitorIDs []int                  `json:"competitorIds"`
	BonusPoints   float64                `json:"bonusPoints"`
	Status        string                 `json:"status"`
	CreatedBy     string                 `json:"createdBy"`
	CreatedAt     time.Time              `json:"createdAt"`
	Voting        *tiebreak.VotingStatus `json:"voting,omitempty"`
}

func TransformSessionFromStorage(s *storage.TiebreakerSession, voting *tiebreak.VotingStatus) TiebreakerSessionResponse {
	return TiebreakerSessionResponse{
		SessionID:     s.SessionID,
		Position:      s.Position,
		Description:   s.Description,
		CompetitorIDs: s.CompetitorIDs,
		BonusPoints:   s.BonusPoints,
		Status:        s.Status,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Voting:        voting,
	}
}

type TiebreakerVoteRequest struct {
	SessionID    string  `json:"sessionId"`
	CompetitorID int     `json:"competitorId"`
	Rating       float64 `json:"rating"`
}

type TiebreakerVoteResponse struct {
	SessionID    string    `json:"sessionId"`
	JudgeID      int       `json:"judgeId"`
	CompetitorID int       `json:"competitorId"`
	Rating       float64   `json:"rating"`
	Inserted     bool      `json:"inserted"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ResolveTiebreakerRequest struct {
	SessionID string `json:"sessionId"`
}

type CancelTiebreakerRequest struct {
	SessionID string `json:"sessionId"`
}
