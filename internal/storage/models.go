package storage

import "time"

// BotState holds the single most-recent observation for a price source. The
// snapshot payload is the JSON encoding of the latest extracted snapshot; the
// last-notified date is the dedupe key that makes notifications at-most-once
// per report date, durable across restarts.
type BotState struct {
	Source           string    `json:"source" gorm:"primaryKey;column:source"`
	Snapshot         []byte    `json:"snapshot" gorm:"column:snapshot"`
	ReportDate       string    `json:"report_date" gorm:"column:report_date"`
	LastNotifiedDate string    `json:"last_notified_date" gorm:"column:last_notified_date"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// Delivery records the outcome of one notification attempt on one channel.
// At most one notification per report date and channel is ever attempted.
type Delivery struct {
	ID         string    `json:"id" gorm:"primaryKey;column:id"`
	ReportDate string    `json:"report_date" gorm:"index;column:report_date"`
	Channel    string    `json:"channel" gorm:"column:channel"`
	Success    bool      `json:"success" gorm:"column:success"`
	Error      string    `json:"error,omitempty" gorm:"column:error"`
	SentAt     time.Time `json:"sent_at" gorm:"column:sent_at"`
}

// Setting is a runtime key/value override (e.g. poll_interval).
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey;column:key"`
	Value     string    `json:"value" gorm:"column:value"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// ScheduledJob tracks the last run of a background job.
type ScheduledJob struct {
	Name           string    `json:"name" gorm:"primaryKey;column:name"`
	LastRunAt      time.Time `json:"last_run_at" gorm:"column:last_run_at"`
	LastDurationMs int64     `json:"last_duration_ms" gorm:"column:last_duration_ms"`
	LastSuccess    bool      `json:"last_success" gorm:"column:last_success"`
	LastError      string    `json:"last_error,omitempty" gorm:"column:last_error"`
}
