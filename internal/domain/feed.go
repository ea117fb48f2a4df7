package domain

import "time"

// FeedStatus descreve o estado do agendador de atualização do feed
type FeedStatus struct {
	Enabled             bool      `json:"enabled"`
	Running             bool      `json:"running"`
	CronSchedule        string    `json:"cron_schedule"`
	Source              string    `json:"source"`
	LastSyncStartedAt   time.Time `json:"last_sync_started_at"`
	LastSyncCompletedAt time.Time `json:"last_sync_completed_at"`
	LastError           string    `json:"last_error,omitempty"`
	Stores              int       `json:"stores"`
	Records             int       `json:"records"`
}
