package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/foxafamily/community/internal/cache"
	"github.com/foxafamily/community/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDays(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		stored map[string]string
		want   int
	}{
		{"unset falls back to 30", nil, 30},
		{"stored value wins", map[string]string{SettingSessionDays: "7"}, 7},
		{"non-numeric falls back", map[string]string{SettingSessionDays: "soon"}, 30},
		{"zero falls back", map[string]string{SettingSessionDays: "0"}, 30},
		{"negative falls back", map[string]string{SettingSessionDays: "-3"}, 30},
		{"whitespace tolerated", map[string]string{SettingSessionDays: " 14 "}, 14},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newSettingsService(tc.stored, nil)
			assert.Equal(t, tc.want, svc.SessionDays(ctx))
		})
	}
}

func TestRegistrationOpen(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		val  string
		want bool
	}{
		{"1", true}, {"true", true}, {"TRUE", true}, {"yes", true},
		{"0", false}, {"false", false}, {"off", false}, {"", false},
	}
	for _, tc := range cases {
		svc, _ := newSettingsService(map[string]string{SettingRegistrationOpen: tc.val}, nil)
		assert.Equal(t, tc.want, svc.RegistrationOpen(ctx), "value %q", tc.val)
	}

	t.Run("closed when unset", func(t *testing.T) {
		svc, _ := newSettingsService(nil, nil)
		assert.False(t, svc.RegistrationOpen(ctx))
	})
}

func TestMinPasswordLen(t *testing.T) {
	ctx := context.Background()

	svc, _ := newSettingsService(nil, nil)
	assert.Equal(t, 6, svc.MinPasswordLen(ctx))

	svc, _ = newSettingsService(map[string]string{SettingMinPasswordLen: "12"}, nil)
	assert.Equal(t, 12, svc.MinPasswordLen(ctx))
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Username: "root", Role: domain.RoleSuperadmin}

	t.Run("empty key rejected", func(t *testing.T) {
		svc, _ := newSettingsService(nil, nil)
		err := svc.Upsert(ctx, actor, "  ", "1")
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("write is audited", func(t *testing.T) {
		auditor := &stubAuditor{}
		svc, repo := newSettingsService(nil, auditor)

		require.NoError(t, svc.Upsert(ctx, actor, SettingRegistrationOpen, "1"))
		assert.Equal(t, "1", repo.writes[SettingRegistrationOpen])
		assert.Equal(t, []string{"setting_update"}, auditor.actions())
	})
}

func TestSettingsReadThroughCache(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Username: "root", Role: domain.RoleSuperadmin}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &stubSettings{values: map[string]string{SettingSessionDays: "7"}}
	svc := NewSettingsService(nil, repo,
		cache.NewSettingsCache(client, time.Minute, discard()), &stubAuditor{}, discard())

	// First read populates the cache; a stale store value is then ignored
	// until invalidation.
	assert.Equal(t, 7, svc.SessionDays(ctx))
	repo.values[SettingSessionDays] = "14"
	assert.Equal(t, 7, svc.SessionDays(ctx))

	// An upsert invalidates, so the next read sees the new value.
	require.NoError(t, svc.Upsert(ctx, actor, SettingSessionDays, "14"))
	assert.Equal(t, 14, svc.SessionDays(ctx))
}
