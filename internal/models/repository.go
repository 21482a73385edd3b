package models

import "github.com/KOFI-GYIMAH/repo-scorer/internal/github"

// * ScoredRepository is what GET /repositories returns for each search result
type ScoredRepository struct {
	FullName        string  `json:"full_name"`
	HTMLURL         string  `json:"html_url"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	PushedAt        string  `json:"pushed_at"`
	PopularityScore float64 `json:"popularity_score"`
}

// * NewScoredRepository copies repo so the cached record is never touched
func NewScoredRepository(repo github.Repository, score float64) ScoredRepository {
	var description *string
	if repo.Description != nil {
		d := *repo.Description
		description = &d
	}

	return ScoredRepository{
		FullName:        repo.FullName,
		HTMLURL:         repo.HTMLURL,
		Description:     description,
		StargazersCount: repo.StargazersCount,
		ForksCount:      repo.ForksCount,
		PushedAt:        repo.PushedAt,
		PopularityScore: score,
	}
}
