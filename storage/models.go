package storage

import (
	"fmt"
	"time"
)

// Score entry kinds. Bonus entries are written by the tiebreaker resolution
// and adjust a competitor's aggregate without touching judge scores.
const (
	ScoreKindJudge = "score"
	ScoreKindBonus = "bonus"
)

// Only one session may hold the active slot at a time; resolved and cancelled
// sessions leave the slot rather than changing status, so active is the only
// status a stored session ever carries.
const SessionStatusActive = "active"

type Competitor struct {
	ID          int      `dynamodbav:"PK"`
	Name        string   `dynamodbav:"Name"`
	Description string   `dynamodbav:"Description"`
	Members     []string `dynamodbav:"Members"`
	Active      bool     `dynamodbav:"Active"`
}

type Category struct {
	ID          int     `dynamodbav:"PK"`
	Name        string  `dynamodbav:"Name"`
	Description string  `dynamodbav:"Description"`
	Weight      float64 `dynamodbav:"Weight"`
	Mandatory   bool    `dynamodbav:"Mandatory"`
	Active      bool    `dynamodbav:"Active"`
}

type Judge struct {
	ID        int       `dynamodbav:"PK"`
	Name      string    `dynamodbav:"Name"`
	Token     string    `dynamodbav:"Token"`
	Active    bool      `dynamodbav:"Active"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
}

// ScoreEntry is one row of the score ledger. Judge scores use
// PK judge#<id> / SK comp#<id>#cat#<id>, so a judge re-submitting the same
// (competitor, category) pair overwrites their previous value. Bonus entries
// share the table under PK "bonus" keyed by the session that produced them.
type ScoreEntry struct {
	PK           string    `dynamodbav:"PK" json:"-"`
	SK           string    `dynamodbav:"SK" json:"-"`
	Kind         string    `dynamodbav:"Kind" json:"kind"`
	JudgeID      int       `dynamodbav:"JudgeID" json:"judgeId,omitempty"`
	CompetitorID int       `dynamodbav:"CompetitorID" json:"competitorId"`
	CategoryID   int       `dynamodbav:"CategoryID" json:"categoryId,omitempty"`
	Value        float64   `dynamodbav:"Value" json:"value"`
	SessionID    string    `dynamodbav:"SessionID,omitempty" json:"sessionId,omitempty"`
	CreatedAt    time.Time `dynamodbav:"CreatedAt" json:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"UpdatedAt" json:"updatedAt"`
}

func NewJudgeScore(judgeID, competitorID, categoryID int, value float64, now time.Time) *ScoreEntry {
	return &ScoreEntry{
		PK:           judgePK(judgeID),
		SK:           fmt.Sprintf("comp#%d#cat#%d", competitorID, categoryID),
		Kind:         ScoreKindJudge,
		JudgeID:      judgeID,
		CompetitorID: competitorID,
		CategoryID:   categoryID,
		Value:        value,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NewBonusEntry(sessionID string, competitorID int, value float64, now time.Time) *ScoreEntry {
	return &ScoreEntry{
		PK:           ScoreKindBonus,
		SK:           fmt.Sprintf("session#%s", sessionID),
		Kind:         ScoreKindBonus,
		CompetitorID: competitorID,
		Value:        value,
		SessionID:    sessionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TiebreakerSession occupies the single active slot (PK is always ActiveSlotKey)
// so activation is a plain conditional put.
type TiebreakerSession struct {
	Slot          string    `dynamodbav:"PK" json:"-"`
	SessionID     string    `dynamodbav:"SessionID" json:"sessionId"`
	Position      int       `dynamodbav:"Position" json:"position"`
	Description   string    `dynamodbav:"Description" json:"description"`
	CompetitorIDs []int     `dynamodbav:"CompetitorIDs" json:"competitorIds"`
	BonusPoints   float64   `dynamodbav:"BonusPoints" json:"bonusPoints"`
	Status        string    `dynamodbav:"Status" json:"status"`
	CreatedBy     string    `dynamodbav:"CreatedBy" json:"createdBy"`
	CreatedAt     time.Time `dynamodbav:"CreatedAt" json:"createdAt"`
}

const ActiveSlotKey = "ACTIVE"

func (s *TiebreakerSession) HasCompetitor(competitorID int) bool {
	for _, id := range s.CompetitorIDs {
		if id == competitorID {
			return true
		}
	}
	return false
}

// TiebreakerVote mirrors the score ledger upsert contract, scoped to a session.
type TiebreakerVote struct {
	SessionID    string    `dynamodbav:"PK" json:"sessionId"`
	SK           string    `dynamodbav:"SK" json:"-"`
	JudgeID      int       `dynamodbav:"JudgeID" json:"judgeId"`
	CompetitorID int       `dynamodbav:"CompetitorID" json:"competitorId"`
	Rating       float64   `dynamodbav:"Rating" json:"rating"`
	CreatedAt    time.Time `dynamodbav:"CreatedAt" json:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"UpdatedAt" json:"updatedAt"`
}

func NewTiebreakerVote(sessionID string, judgeID, competitorID int, rating float64, now time.Time) *TiebreakerVote {
	return &TiebreakerVote{
		SessionID:    sessionID,
		SK:           fmt.Sprintf("judge#%d#comp#%d", judgeID, competitorID),
		JudgeID:      judgeID,
		CompetitorID: competitorID,
		Rating:       rating,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type CompetitorAverage struct {
	CompetitorID int     `dynamodbav:"CompetitorID" json:"competitorId"`
	Average      float64 `dynamodbav:"Average" json:"average"`
}

// ResolutionRecord is the immutable archive of a finished session.
type ResolutionRecord struct {
	SessionID     string              `dynamodbav:"PK" json:"sessionId"`
	Position      int                 `dynamodbav:"Position" json:"position"`
	Description   string              `dynamodbav:"Description" json:"description"`
	CompetitorIDs []int               `dynamodbav:"CompetitorIDs" json:"competitorIds"`
	Averages      []CompetitorAverage `dynamodbav:"Averages" json:"averages"`
	WinnerID      int                 `dynamodbav:"WinnerID" json:"winnerId"`
	BonusApplied  float64             `dynamodbav:"BonusApplied" json:"bonusApplied"`
	ResolvedBy    string              `dynamodbav:"ResolvedBy" json:"resolvedBy"`
	ResolvedAt    time.Time           `dynamodbav:"ResolvedAt" json:"resolvedAt"`
}
