// Package models contains the models for the NSE gateway
package models

import (
	"time"

	"gorm.io/datatypes"
)

const DispatchJournalTableName = "dispatch_journal"

// Dispatch outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// DispatchOutcome describes one finished dispatch, successful or not
type DispatchOutcome struct {
	RequestID    string        `json:"request_id"`
	Kind         string        `json:"kind"`
	Identifier   string        `json:"identifier,omitempty"`
	Class        string        `json:"class,omitempty"`
	Path         string        `json:"path,omitempty"`
	Attempts     int           `json:"attempts"`
	Outcome      string        `json:"outcome"`
	Error        string        `json:"error,omitempty"`
	PayloadBytes int           `json:"payload_bytes"`
	Duration     time.Duration `json:"duration"`
	StartedAt    time.Time     `json:"started_at"`
}

// DispatchRecord is the persisted form of a DispatchOutcome
type DispatchRecord struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"-"`
	RequestID    string         `gorm:"uniqueIndex;size:36" json:"request_id"`
	Kind         string         `gorm:"index:idx_kind_outcome,priority:1" json:"kind"`
	Identifier   string         `gorm:"index" json:"identifier"`
	Class        string         `json:"class"`
	Path         string         `json:"path"`
	Attempts     int            `json:"attempts"`
	Outcome      string         `gorm:"index:idx_kind_outcome,priority:2" json:"outcome"`
	Error        string         `json:"error"`
	PayloadBytes int            `json:"payload_bytes"`
	DurationMs   int64          `json:"duration_ms"`
	StartedAt    time.Time      `gorm:"index" json:"started_at"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"-"`
}

func (DispatchRecord) TableName() string {
	return DispatchJournalTableName
}
