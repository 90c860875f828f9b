package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEntries struct {
	repository.ActivityLogRepository
	inserted  []domain.ActivityLogEntry
	insertErr error
	recent    []domain.ActivityLogEntry
	recentErr error
}

func (s *stubEntries) Insert(ctx context.Context, db repository.DBTX, e *domain.ActivityLogEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, *e)
	return nil
}

func (s *stubEntries) ListRecent(ctx context.Context, db repository.DBTX, limit int) ([]domain.ActivityLogEntry, error) {
	return s.recent, s.recentErr
}

type stubPublisher struct {
	topic string
	key   []byte
	value []byte
	err   error
}

func (s *stubPublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	s.topic, s.key, s.value = topic, key, value
	return s.err
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRecorderRecord(t *testing.T) {
	userID := uuid.New()

	t.Run("inserts and mirrors", func(t *testing.T) {
		entries := &stubEntries{}
		pub := &stubPublisher{}
		rec := NewRecorder(nil, entries, pub, discard())

		rec.Record(context.Background(), domain.ActivityLogEntry{
			UserID:   &userID,
			Username: "foxy",
			Action:   "login",
			Details:  "successful login",
		})

		require.Len(t, entries.inserted, 1)
		assert.Equal(t, "login", entries.inserted[0].Action)
		assert.False(t, entries.inserted[0].CreatedAt.IsZero())

		assert.Equal(t, Topic, pub.topic)
		assert.Equal(t, []byte("login"), pub.key)

		var mirrored domain.ActivityLogEntry
		require.NoError(t, json.Unmarshal(pub.value, &mirrored))
		assert.Equal(t, "foxy", mirrored.Username)
	})

	t.Run("insert failure does not panic or block", func(t *testing.T) {
		entries := &stubEntries{insertErr: errors.New("db down")}
		pub := &stubPublisher{}
		rec := NewRecorder(nil, entries, pub, discard())

		rec.Record(context.Background(), domain.ActivityLogEntry{Action: "login"})

		// The mirror still fires even when the insert fails.
		assert.Equal(t, Topic, pub.topic)
	})

	t.Run("nil publisher skips mirroring", func(t *testing.T) {
		entries := &stubEntries{}
		rec := NewRecorder(nil, entries, nil, discard())

		rec.Record(context.Background(), domain.ActivityLogEntry{Action: "logout"})
		require.Len(t, entries.inserted, 1)
	})

	t.Run("publish failure is swallowed", func(t *testing.T) {
		entries := &stubEntries{}
		pub := &stubPublisher{err: errors.New("broker gone")}
		rec := NewRecorder(nil, entries, pub, discard())

		rec.Record(context.Background(), domain.ActivityLogEntry{Action: "login"})
		require.Len(t, entries.inserted, 1)
	})
}

func TestRecorderRecent(t *testing.T) {
	t.Run("returns entries", func(t *testing.T) {
		entries := &stubEntries{recent: []domain.ActivityLogEntry{{Action: "login"}}}
		rec := NewRecorder(nil, entries, nil, discard())

		got, err := rec.Recent(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("store failure surfaces as STORE_UNAVAILABLE", func(t *testing.T) {
		entries := &stubEntries{recentErr: errors.New("db down")}
		rec := NewRecorder(nil, entries, nil, discard())

		_, err := rec.Recent(context.Background(), 10)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "STORE_UNAVAILABLE", appErr.Code)
	})
}
