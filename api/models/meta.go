package models

import (
	"github.com/KernyMC/Reinado2025-sub000/storage"
)

type CompetitorCreateRequest struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

type CompetitorUpdateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
	Active      *bool    `json:"active"`
}

type CompetitorResponse struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
	Active      bool     `json:"active"`
}

func TransformCompetitorFromStorage(c *storage.Competitor) CompetitorResponse {
	return CompetitorResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Members:     c.Members,
		Active:      c.Active,
	}
}

type CategoryCreateRequest struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	Mandatory   bool    `json:"mandatory"`
}

type CategoryUpdateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	Mandatory   bool    `json:"mandatory"`
	Active      *bool   `json:"active"`
}

type CategoryResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	Mandatory   bool    `json:"mandatory"`
	Active      bool    `json:"active"`
}

func TransformCategoryFromStorage(c *storage.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Weight:      c.Weight,
		Mandatory:   c.Mandatory,
		Active:      c.Active,
	}
}

type JudgeCreateRequest struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type JudgeUpdateRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

// JudgeResponse includes the access token only right after creation or a
// token reset; listings omit it.
type JudgeResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Token  string `json:"token,omitempty"`
}

func TransformJudgeFromStorage(j *storage.Judge, withToken bool) JudgeResponse {
	r := JudgeResponse{
		ID:     j.ID,
		Name:   j.Name,
		Active: j.Active,
	}
	if withToken {
		r.Token = j.Token
	}
	return r
}
