package activity

import (
	"math"
	"sort"
	"strings"

	"questloggd/backend/internal/models"
)

// Default view sizes, matching what the profile page shows.
const (
	DefaultFavouritesLimit     = 4
	DefaultRecentlyPlayedLimit = 10
	DefaultRecentReviewsLimit  = 5
)

// The aggregation functions below are pure: they derive views from a slice of
// entries without touching storage, and identical input always produces
// identical output. Recomputing from the raw log on every read is deliberate;
// it keeps the log the single source of truth.

// Favourites returns the user's top-rated games: unrated entries (rating 0)
// are dropped, the rest sorted by rating descending with more recent entries
// winning ties.
func Favourites(entries []models.LogEntry, limit int) []models.LogEntry {
	rated := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Rating > 0 {
			rated = append(rated, e)
		}
	}
	sort.Slice(rated, func(i, j int) bool {
		if rated[i].Rating != rated[j].Rating {
			return rated[i].Rating > rated[j].Rating
		}
		return moreRecent(rated[i], rated[j])
	})
	return head(rated, limit)
}

// RecentlyPlayed returns the user's play history newest first, collapsed to
// one entry per game. When a game was logged multiple times the most recent
// entry represents it.
func RecentlyPlayed(entries []models.LogEntry, limit int) []models.LogEntry {
	sorted := make([]models.LogEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return moreRecent(sorted[i], sorted[j])
	})

	seen := make(map[uint]bool, len(sorted))
	deduped := make([]models.LogEntry, 0, len(sorted))
	for _, e := range sorted {
		if seen[e.GameID] {
			continue
		}
		seen[e.GameID] = true
		deduped = append(deduped, e)
	}
	return head(deduped, limit)
}

// RecentReviews returns the user's written reviews newest first. Entries
// whose review is empty after trimming are rating-only and excluded.
func RecentReviews(entries []models.LogEntry, limit int) []models.LogEntry {
	reviewed := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.ReviewText) != "" {
			reviewed = append(reviewed, e)
		}
	}
	sort.Slice(reviewed, func(i, j int) bool {
		return moreRecent(reviewed[i], reviewed[j])
	})
	return head(reviewed, limit)
}

// AverageRating averages the rated entries for one game to one decimal.
// ok is false when no entry carries a rating.
func AverageRating(entries []models.LogEntry) (avg float64, ok bool) {
	var sum, n int
	for _, e := range entries {
		if e.Rating > 0 {
			sum += e.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(float64(sum)/float64(n)*10) / 10, true
}

// UserLogForGame returns the user's entry among one game's entries, or nil if
// the user never logged it. A user who logged the game more than once is
// represented by the most recent entry, since that is their current take.
func UserLogForGame(entries []models.LogEntry, userID uint) *models.LogEntry {
	var latest *models.LogEntry
	for i := range entries {
		e := &entries[i]
		if e.UserID != userID {
			continue
		}
		if latest == nil || moreRecent(*e, *latest) {
			latest = e
		}
	}
	return latest
}

// moreRecent orders entries newest first, breaking equal timestamps by entry
// id so same-second appends still sort deterministically.
func moreRecent(a, b models.LogEntry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func head(entries []models.LogEntry, limit int) []models.LogEntry {
	if limit >= 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
