package library

import (
	"time"

	"serwer-medytacji/internal/models"
)

type Freshness int

const (
	Absent Freshness = iota
	Fresh
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// classify places a cache record on the freshness scale: Absent when there
// is no record, Fresh while its age is strictly below ttl, Stale after.
func classify(rec *models.CacheRecord, now time.Time, ttl time.Duration) Freshness {
	if rec == nil {
		return Absent
	}
	if now.Sub(rec.UpdatedAt) < ttl {
		return Fresh
	}
	return Stale
}
