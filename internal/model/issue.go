package model

import (
	"strconv"
	"time"
)

// Issue is a single issue as returned by the GitHub issues API.
// It is constructed by the source client and never mutated afterwards.
type Issue struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	State     string    `json:"state"` // "open" or "closed"
	URL       string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
}

// DocID returns the Firestore document ID for this issue.
func (i Issue) DocID() string {
	return strconv.FormatInt(i.ID, 10)
}

// Document is the Firestore representation of a synced issue.
// SyncedAt is stamped when the transformation runs, not when the
// issue was fetched.
type Document struct {
	ID        string    `json:"id" firestore:"id"`
	Title     string    `json:"title" firestore:"title"`
	State     string    `json:"state" firestore:"state"`
	URL       string    `json:"url" firestore:"url"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	SyncedAt  time.Time `json:"syncedAt" firestore:"syncedAt"`
}
