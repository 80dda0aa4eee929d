package models

import "time"

// LogEntry is one row of the append-only audit log.
type LogEntry struct {
	EventName    string    `json:"event_name"`
	EventDetails string    `json:"event_details"`
	Timestamp    time.Time `json:"timestamp"`
}
