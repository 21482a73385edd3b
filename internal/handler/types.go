package handler

import "time"

const (
	defaultLanguage = "Python"
	defaultPerPage  = 20
	defaultPage     = 1
	dateLayout      = "2006-01-02"
)

type RateLimitStatus struct {
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// * HealthResponse omits rate_limit until GitHub has reported a quota
type HealthResponse struct {
	Status    string           `json:"status"`
	RateLimit *RateLimitStatus `json:"rate_limit,omitempty"`
}
