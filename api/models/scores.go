package models

import (
	"time"

	"github.com/KernyMC/Reinado2025-sub000/storage"
)

type RecordScoreRequest struct {
	CompetitorID int     `json:"competitorId"`
	CategoryID   int     `json:"categoryId"`
	Value        float64 `json:"value"`
}

type ScoreResponse struct {
	JudgeID      int       `json:"judgeId"`
	CompetitorID int       `json:"competitorId"`
	CategoryID   int       `json:"categoryId"`
	Value        float64   `json:"value"`
	Inserted     bool      `json:"inserted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func TransformScoreFromStorage(e *storage.ScoreEntry, inserted bool) ScoreResponse {
	return ScoreResponse{
		JudgeID:      e.JudgeID,
		CompetitorID: e.CompetitorID,
		CategoryID:   e.CategoryID,
		Value:        e.Value,
		Inserted:     inserted,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
