// Package cache holds Redis backed read-through decorators for repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const settingsKey = "attendance:office_settings"

// storeIfNewer replaces the cached settings only when the incoming version is
// newer than the cached one, so a slow read-through fill cannot overwrite the
// value an Upsert already stored.
//
// KEYS[1] cache key, ARGV[1] version, ARGV[2] payload, ARGV[3] ttl in ms.
var storeIfNewer = redis.NewScript(`
local cached = tonumber(redis.call('HGET', KEYS[1], 'version'))
if cached and cached >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'payload', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// SettingsRepository serves Get from Redis and falls through to the wrapped
// repository on a miss. Redis failures are logged and never fail a request.
type SettingsRepository struct {
	next    settings.SettingsRepository
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewSettingsRepository returns next unchanged when client is nil.
func NewSettingsRepository(next settings.SettingsRepository, client *redis.Client, ttl time.Duration, m *metrics.Metrics) settings.SettingsRepository {
	if client == nil {
		return next
	}
	return &SettingsRepository{next: next, client: client, ttl: ttl, metrics: m}
}

func (r *SettingsRepository) Get(ctx context.Context) (settings.OfficeSettings, error) {
	if cached, ok := r.read(ctx); ok {
		r.metrics.ObserveCacheLookup(true)
		return cached, nil
	}
	r.metrics.ObserveCacheLookup(false)

	s, err := r.next.Get(ctx)
	if err != nil {
		return settings.OfficeSettings{}, err
	}
	r.write(ctx, s)
	return s, nil
}

// Upsert writes through and caches the saved version. If that fails the
// cached copy is dropped instead.
func (r *SettingsRepository) Upsert(ctx context.Context, s settings.OfficeSettings) (settings.OfficeSettings, error) {
	saved, err := r.next.Upsert(ctx, s)
	if err != nil {
		return settings.OfficeSettings{}, err
	}
	if !r.write(ctx, saved) {
		if err := r.client.Del(ctx, settingsKey).Err(); err != nil {
			slog.WarnContext(ctx, "failed to invalidate settings cache", "error", err)
		}
	}
	return saved, nil
}

func (r *SettingsRepository) read(ctx context.Context) (settings.OfficeSettings, bool) {
	raw, err := r.client.HGet(ctx, settingsKey, "payload").Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "settings cache read failed", "error", err)
		}
		return settings.OfficeSettings{}, false
	}

	var s settings.OfficeSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		slog.WarnContext(ctx, "discarding corrupt settings cache entry", "error", err)
		return settings.OfficeSettings{}, false
	}
	return s, true
}

// write reports whether the cache now holds s or something newer.
func (r *SettingsRepository) write(ctx context.Context, s settings.OfficeSettings) bool {
	payload, err := json.Marshal(s)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode settings for cache", "error", err)
		return false
	}
	err = storeIfNewer.Run(ctx, r.client, []string{settingsKey}, s.Version, payload, r.ttl.Milliseconds()).Err()
	if err != nil {
		slog.WarnContext(ctx, "settings cache write failed", "error", err)
		return false
	}
	return true
}

// NewRedis returns a connected client.
func NewRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}
