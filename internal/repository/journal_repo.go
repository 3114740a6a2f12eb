package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsvirk/nsegateway/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JournalRepository stores one row per finished dispatch
type JournalRepository struct {
	DB *gorm.DB
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{DB: db}
}

// Record implements service.Recorder
func (r *JournalRepository) Record(ctx context.Context, o models.DispatchOutcome) error {
	record, err := NewDispatchRecord(o)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert into %s: %v", models.DispatchJournalTableName, err)
	}
	return nil
}

// GetRecentDispatches returns the newest records first, optionally filtered by kind
func (r *JournalRepository) GetRecentDispatches(ctx context.Context, kind string, limit int) ([]models.DispatchRecord, error) {
	var records []models.DispatchRecord
	query := r.DB.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent dispatches: %v", err)
	}
	return records, nil
}

// NewDispatchRecord converts an outcome into its table row
func NewDispatchRecord(o models.DispatchOutcome) (models.DispatchRecord, error) {
	details, err := json.Marshal(o)
	if err != nil {
		return models.DispatchRecord{}, fmt.Errorf("failed to marshal dispatch details: %v", err)
	}
	return models.DispatchRecord{
		RequestID:    o.RequestID,
		Kind:         o.Kind,
		Identifier:   o.Identifier,
		Class:        o.Class,
		Path:         o.Path,
		Attempts:     o.Attempts,
		Outcome:      o.Outcome,
		Error:        o.Error,
		PayloadBytes: o.PayloadBytes,
		DurationMs:   o.Duration.Milliseconds(),
		StartedAt:    o.StartedAt,
		Details:      datatypes.JSON(details),
	}, nil
}
