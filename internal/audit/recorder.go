package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Topic is the Kafka topic audit entries are mirrored to.
const Topic = "audit.activity"

// Publisher publishes a message to a topic. Satisfied by infra.KafkaProducer.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Recorder appends entries to the activity log and mirrors them to Kafka.
// Recording never fails the calling operation: a mutation that succeeded
// stays succeeded even when the log write does not.
type Recorder struct {
	pool      *pgxpool.Pool
	entries   repository.ActivityLogRepository
	publisher Publisher
	logger    *slog.Logger
}

// NewRecorder creates a Recorder. publisher may be nil to skip mirroring.
func NewRecorder(pool *pgxpool.Pool, entries repository.ActivityLogRepository, publisher Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{pool: pool, entries: entries, publisher: publisher, logger: logger}
}

// Record appends one audit entry. Failures are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, entry domain.ActivityLogEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := r.entries.Insert(ctx, r.pool, &entry); err != nil {
		r.logger.Warn("audit insert failed",
			"action", entry.Action, "username", entry.Username, "error", err)
	}

	if r.publisher == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		r.logger.Warn("audit marshal failed", "action", entry.Action, "error", err)
		return
	}
	if err := r.publisher.Publish(ctx, Topic, []byte(entry.Action), payload); err != nil {
		r.logger.Warn("audit publish failed", "action", entry.Action, "error", err)
	}
}

// Recent returns the newest entries across all users.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]domain.ActivityLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := r.entries.ListRecent(ctx, r.pool, limit)
	if err != nil {
		return nil, domain.ErrStore("list activity", err)
	}
	return entries, nil
}
