package models

import "time"

type Streak struct {
	Current     int        `json:"current"`
	Longest     int        `json:"longest"`
	LastCheckin *time.Time `json:"lastCheckin"`
}

type LikeCount struct {
	TrackID string `json:"id"`
	Count   int64  `json:"count"`
}
