package model

import "time"

// Run statuses, persisted in the runs table.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusFetching  = "fetching"
	StatusWriting   = "writing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SyncJobSpec is the configuration for one sync run.
// It is the body of POST /api/v1/syncs; zero-value fields are filled
// from the connector configuration.
type SyncJobSpec struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	State      string `json:"state"`      // "open", "closed" or "all"
	Collection string `json:"collection"` // Firestore collection
	PageSize   int    `json:"pageSize"`
	Workers    int    `json:"workers"`    // write workers
	JobTimeout string `json:"jobTimeout"` // e.g. "5m"
	FullResync bool   `json:"fullResync"` // ignore the stored checkpoint
}

// SyncRun is a persisted sync run with its lifecycle metadata.
type SyncRun struct {
	ID            string      `json:"id"`
	Spec          SyncJobSpec `json:"spec"`
	Status        string      `json:"status"`
	IssuesFetched int         `json:"issuesFetched"`
	DocsWritten   int         `json:"docsWritten"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// RunError is a persisted error raised during a run.
type RunError struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"runId"`
	Stage     string    `json:"stage"` // "fetch", "transform", "write"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// RunLog is a persisted log line attached to a run.
type RunLog struct {
	ID        int64                  `json:"id"`
	RunID     string                 `json:"runId"`
	Stage     string                 `json:"stage"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Checkpoint records how far a repository has been synced. The next
// poll passes LastSyncedAt as the "since" parameter.
type Checkpoint struct {
	Owner        string    `json:"owner"`
	Repo         string    `json:"repo"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
