package github

import "fmt"

// * Repository is one entry of the search response's items array, kept in the
// * upstream JSON shape
type Repository struct {
	FullName        string  `json:"full_name"`
	HTMLURL         string  `json:"html_url"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	PushedAt        string  `json:"pushed_at"`
}

// * SearchQuery identifies one cacheable upstream search. It is a plain value
// * so it can key a map directly.
type SearchQuery struct {
	Language     string
	CreatedAfter string
	PerPage      int
	Page         int
}

// * Text renders the GitHub search qualifier string
func (q SearchQuery) Text() string {
	return fmt.Sprintf("language:%s created:>%s", q.Language, q.CreatedAfter)
}

func (q SearchQuery) String() string {
	return fmt.Sprintf("(%s, %s, %d, %d)", q.Language, q.CreatedAfter, q.PerPage, q.Page)
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}
