package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

// RunRecord captures one Optimize call's outcome.
type RunRecord struct {
	ID          string        `json:"id" bson:"_id"`
	Strategy    string        `json:"strategy" bson:"strategy"`
	NodeCount   int           `json:"node_count" bson:"node_count"`
	NumStreams  int           `json:"num_streams" bson:"num_streams"`
	Plan        schedcache.Plan `json:"plan" bson:"plan"`
	Duration    time.Duration `json:"duration" bson:"duration"`
	Err         string        `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at" bson:"started_at"`
	CompletedAt time.Time     `json:"completed_at" bson:"completed_at"`
}

// NewRunRecord creates a RunRecord with a fresh ID.
func NewRunRecord(strategy string, nodeCount, numStreams int, plan schedcache.Plan, startedAt, completedAt time.Time, runErr error) RunRecord {
	rec := RunRecord{
		ID:          uuid.NewString(),
		Strategy:    strategy,
		NodeCount:   nodeCount,
		NumStreams:  numStreams,
		Plan:        plan,
		Duration:    completedAt.Sub(startedAt),
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}
	if runErr != nil {
		rec.Err = runErr.Error()
	}
	return rec
}

// Ledger stores and retrieves RunRecords. Implementations must be safe
// for concurrent use.
type Ledger interface {
	// Record persists a completed run.
	Record(ctx context.Context, rec RunRecord) error

	// Recent returns up to limit records, most recent first.
	Recent(ctx context.Context, limit int) ([]RunRecord, error)

	// Close releases any resources held by the ledger.
	Close() error
}
