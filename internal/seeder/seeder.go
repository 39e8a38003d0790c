// Package seeder generates realistic daily report fixtures: matched
// client/server error rows for one calendar day plus ban rows for a cut of
// the players. It stands in for the game backend and the ban system when
// developing or load-testing the pipeline.
package seeder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/evrgames/metapipe/internal/models"
)

// Config controls one generated dataset.
type Config struct {
	// Day is the calendar day all timestamps land in.
	Day time.Time
	// Incidents is the number of error_ids reported by both sides.
	Incidents int
	// Orphans is the number of per-side rows with no counterpart; they
	// exercise the join's drop path.
	Orphans int
	// CheaterRatio is the fraction of players that get a ban row dated on
	// Day, i.e. inside the one-day grace window.
	CheaterRatio float64
	// Seed makes generation reproducible when non-zero.
	Seed int64
}

// Dataset is one generated day of reports.
type Dataset struct {
	Clients []models.ClientRecord
	Servers []models.ServerRecord
	Bans    []models.BanEntry
}

// Generate builds a dataset for cfg.Day.
func Generate(cfg Config) Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed != 0 {
		gofakeit.Seed(cfg.Seed)
	}

	var ds Dataset
	for i := 0; i < cfg.Incidents; i++ {
		errorID := fmt.Sprintf("E-%s", strings.ToUpper(gofakeit.LetterN(8)))
		playerID := int64(rng.Intn(90000) + 1000)

		clientTime := timeInDay(rng, cfg.Day, i, cfg.Incidents)
		ds.Clients = append(ds.Clients, models.ClientRecord{
			Timestamp:   clientTime,
			ErrorID:     errorID,
			PlayerID:    playerID,
			Description: gofakeit.HackerPhrase(),
		})

		// The server view of the same incident lands shortly after the
		// client report, still inside the day.
		serverTime := clampToDay(clientTime.Add(time.Duration(rng.Intn(120))*time.Second), cfg.Day)
		ds.Servers = append(ds.Servers, models.ServerRecord{
			Timestamp:   serverTime,
			EventID:     int64(rng.Intn(1_000_000)),
			ErrorID:     errorID,
			Description: gofakeit.Sentence(6),
		})

		if rng.Float64() < cfg.CheaterRatio {
			banTime := time.Date(cfg.Day.Year(), cfg.Day.Month(), cfg.Day.Day(),
				rng.Intn(24), rng.Intn(60), rng.Intn(60), 0, time.Local)
			ds.Bans = append(ds.Bans, models.BanEntry{
				PlayerID: playerID,
				BanTime:  banTime.Format(models.BanTimeLayout),
			})
		}
	}

	for i := 0; i < cfg.Orphans; i++ {
		ds.Clients = append(ds.Clients, models.ClientRecord{
			Timestamp:   timeInDay(rng, cfg.Day, i, cfg.Orphans),
			ErrorID:     fmt.Sprintf("CO-%s", strings.ToUpper(gofakeit.LetterN(8))),
			PlayerID:    int64(rng.Intn(90000) + 1000),
			Description: gofakeit.HackerPhrase(),
		})
		ds.Servers = append(ds.Servers, models.ServerRecord{
			Timestamp:   timeInDay(rng, cfg.Day, i, cfg.Orphans),
			EventID:     int64(rng.Intn(1_000_000)),
			ErrorID:     fmt.Sprintf("SO-%s", strings.ToUpper(gofakeit.LetterN(8))),
			Description: gofakeit.Sentence(6),
		})
	}

	return ds
}

// timeInDay spreads event i of n across the day with jitter so the feed
// looks organic rather than evenly spaced.
func timeInDay(rng *rand.Rand, day time.Time, i, n int) time.Time {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	if n <= 0 {
		n = 1
	}
	base := float64(24*time.Hour) / float64(n)
	offset := time.Duration(float64(i)*base + (rng.Float64()*2-1)*base*0.4)
	if offset < 0 {
		offset = 0
	}
	if offset >= 24*time.Hour {
		offset = 24*time.Hour - time.Second
	}
	return dayStart.Add(offset)
}

// clampToDay pulls t back inside day when jitter pushed it past midnight.
func clampToDay(t, day time.Time) time.Time {
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.Local)
	if t.After(end) {
		return end
	}
	return t
}
