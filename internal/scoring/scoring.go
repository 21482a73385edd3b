// Package scoring derives a popularity score from a repository's stars, forks
// and how recently it was pushed to.
package scoring

import (
	"math"
	"time"

	"github.com/KOFI-GYIMAH/repo-scorer/internal/github"
)

const (
	forkWeight    = 0.5
	recencyWeight = 100.0
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ScoreAt is stars + 0.5*forks + 100*recency, rounded to two decimals.
func ScoreAt(repo github.Repository, now time.Time) float64 {
	score := float64(repo.StargazersCount) +
		float64(repo.ForksCount)*forkWeight +
		Recency(repo.PushedAt, now)*recencyWeight

	return math.Round(score*100) / 100
}

// Recency is 1/(1+d) where d is the number of whole days between pushedAt and
// now. A missing or unreadable timestamp is neutral (1.0); so is a push in the
// future.
func Recency(pushedAt string, now time.Time) float64 {
	pushed, ok := ParseTimestamp(pushedAt)
	if !ok {
		return 1.0
	}

	days := math.Floor(now.Sub(pushed).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return 1 / (1 + days)
}

// ParseTimestamp reads an ISO-8601 timestamp. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
