package pipeline

import "github.com/evrgames/metapipe/internal/models"

// BanRegistry answers ban lookups for the cheater filter.
type BanRegistry interface {
	// BanTimeFor returns the ban timestamp for a player in
	// "YYYY-MM-DD HH:MM:SS" form, or false when the player has no ban.
	BanTimeFor(playerID int64) (string, bool)
}

// MapRegistry is a BanRegistry backed by an in-memory map. The whole ban
// table is loaded once per run instead of querying the store per incident.
type MapRegistry map[int64]string

// NewRegistry builds a MapRegistry from raw ban rows. When a player has more
// than one ban row the most recent ban_time wins; with the fixed
// "YYYY-MM-DD HH:MM:SS" layout, lexicographic order is chronological order.
func NewRegistry(entries []models.BanEntry) MapRegistry {
	reg := make(MapRegistry, len(entries))
	for _, e := range entries {
		if cur, ok := reg[e.PlayerID]; !ok || e.BanTime > cur {
			reg[e.PlayerID] = e.BanTime
		}
	}
	return reg
}

func (r MapRegistry) BanTimeFor(playerID int64) (string, bool) {
	t, ok := r[playerID]
	return t, ok
}
