package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nsvirk/nsegateway/internal/models"
)

func TestNewDispatchRecord(t *testing.T) {
	started := time.Date(2024, 7, 1, 9, 15, 0, 0, time.UTC)
	o := models.DispatchOutcome{
		RequestID:    "3f0c6a8e-6f2d-4d0e-9a5b-1c2d3e4f5a6b",
		Kind:         "option_chain",
		Identifier:   "NIFTY",
		Class:        "index",
		Path:         "/api/option-chain-indices",
		Attempts:     2,
		Outcome:      models.OutcomeSuccess,
		PayloadBytes: 128,
		Duration:     1500 * time.Millisecond,
		StartedAt:    started,
	}

	record, err := NewDispatchRecord(o)
	if err != nil {
		t.Fatalf("NewDispatchRecord: %v", err)
	}
	if record.RequestID != o.RequestID || record.Kind != o.Kind || record.Identifier != "NIFTY" {
		t.Errorf("identity fields not copied: %+v", record)
	}
	if record.Attempts != 2 || record.Outcome != models.OutcomeSuccess {
		t.Errorf("attempts/outcome = %d/%s", record.Attempts, record.Outcome)
	}
	if record.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", record.DurationMs)
	}
	if !record.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", record.StartedAt, started)
	}

	var details models.DispatchOutcome
	if err := json.Unmarshal(record.Details, &details); err != nil {
		t.Fatalf("details are not valid JSON: %v", err)
	}
	if details.Path != o.Path || details.PayloadBytes != 128 {
		t.Errorf("details = %+v", details)
	}
}

func TestStatsRepositoryWithoutRedis(t *testing.T) {
	repo := NewStatsRepository(nil)
	ctx := context.Background()

	if err := repo.Record(ctx, models.DispatchOutcome{Kind: "market_status", Outcome: models.OutcomeSuccess}); err != nil {
		t.Fatalf("Record without redis: %v", err)
	}
	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats without redis: %v", err)
	}
	if stats == nil || len(stats) != 0 {
		t.Errorf("stats = %v, want empty map", stats)
	}
}

func TestStatsField(t *testing.T) {
	if got := StatsField("equity_quote", models.OutcomeFailure); got != "equity_quote:failure" {
		t.Errorf("StatsField = %q", got)
	}
}
