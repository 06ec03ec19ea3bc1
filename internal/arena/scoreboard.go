package arena

import (
	"sort"

	"cosmic-arena/internal/ecs"
)

// ScoreboardEntry is one player's ranked standing.
type ScoreboardEntry struct {
	PlayerID PlayerID
	Name     string
	Score    int
	Kills    int
	Deaths   int
	Rank     int
}

// Scoreboard returns every live player ranked by kills (descending), ties
// broken by name. Adapted from the teacher's Leaderboard: same rank-query
// concern, but backed by a plain stable sort over the live PlayerIdentity
// set rather than a skip list — this room never holds more than
// MaxPlayersPerRoom entries, so there is no scale to amortize a O(log n)
// structure over.
func (s *Simulation) Scoreboard() []ScoreboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]ScoreboardEntry, 0, MaxPlayersPerRoom)
	ecs.Each1(s.store, func(_ ecs.Entity, ident *PlayerIdentity) {
		entries = append(entries, ScoreboardEntry{
			PlayerID: ident.PlayerID,
			Name:     ident.Name,
			Score:    ident.Score,
			Kills:    ident.Kills,
			Deaths:   ident.Deaths,
		})
	})

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Kills != entries[j].Kills {
			return entries[i].Kills > entries[j].Kills
		}
		return entries[i].Name < entries[j].Name
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
