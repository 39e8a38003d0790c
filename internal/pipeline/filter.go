package pipeline

import (
	"fmt"
	"time"

	"github.com/evrgames/metapipe/internal/models"
)

// FilterCheaters removes incidents attributable to banned players. An
// incident is dropped when its player has a ban and the ban date falls on or
// after the day before the incident date: ban registration can lag the
// offending behaviour by up to a day, so incidents inside that window are
// still attributed to the cheater. Incidents without a ban row are always
// kept, and survivors keep their order.
func FilterCheaters(incidents []models.Incident, registry BanRegistry) ([]models.Incident, error) {
	kept := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		banTime, ok := registry.BanTimeFor(inc.PlayerID)
		if !ok {
			kept = append(kept, inc)
			continue
		}
		banned, err := bannedAt(banTime, inc.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", inc.PlayerID, err)
		}
		if !banned {
			kept = append(kept, inc)
		}
	}
	return kept, nil
}

// bannedAt applies the grace-period rule: the incident counts as a cheater's
// when ban_date >= incident_date - 1 day. Both sides are local calendar
// dates; the clock parts of the timestamps never matter.
func bannedAt(banTime string, timestamp int64) (bool, error) {
	ban, err := time.ParseInLocation(models.BanTimeLayout, banTime, time.Local)
	if err != nil {
		return false, fmt.Errorf("parse ban_time %q: %w", banTime, err)
	}
	banDate := dateOf(ban)
	cutoff := dateOf(time.Unix(timestamp, 0)).AddDate(0, 0, -1)
	return !banDate.Before(cutoff), nil
}

// dateOf truncates t to its local calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
