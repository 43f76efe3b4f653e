package types

import "time"

// ActivityLog is an append-only audit record of an authenticated action.
type ActivityLog struct {
	ID        string    `json:"_id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	IPAddress string    `json:"ipAddress" db:"ip_address"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
}

// DashboardSummary aggregates per-user counts for the dashboard view.
type DashboardSummary struct {
	OpenPositions       int `json:"openPositions"`
	TotalCandidates     int `json:"totalCandidates"`
	ScheduledInterviews int `json:"scheduledInterviews"`
}
