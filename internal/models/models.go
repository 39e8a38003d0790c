// Package models defines the record types flowing through the daily
// incident pipeline.
package models

import "time"

// ClientRecord is one row of the client-reported error feed, restricted to a
// single calendar day by the source loader.
type ClientRecord struct {
	Timestamp   time.Time
	ErrorID     string
	PlayerID    int64
	Description string
}

// ServerRecord is one row of the server-reported event feed.
type ServerRecord struct {
	Timestamp   time.Time
	EventID     int64
	ErrorID     string
	Description string
}

// Incident is one joined client+server view of the same reported error.
// Timestamp is the client-side report time in epoch seconds; the join and the
// storage layer both operate on the integer form.
type Incident struct {
	Timestamp         int64
	ErrorID           string
	PlayerID          int64
	ServerDescription string
	EventID           int64
	ClientDescription string
}

// BanTimeLayout is the format the ban registry stores ban timestamps in.
const BanTimeLayout = "2006-01-02 15:04:05"

// BanEntry is one row of the external cheaters table. BanTime keeps the
// stored "YYYY-MM-DD HH:MM:SS" string form; parsing happens at the filter
// boundary.
type BanEntry struct {
	PlayerID int64
	BanTime  string
}
