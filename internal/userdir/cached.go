package userdir

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	cacheport "github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/cache/port"
)

// CachedDirectory decorates another Directory with a read-through cache for
// display metadata. Misses on the inner directory are not cached, so a user
// created after a failed lookup becomes visible immediately.
type CachedDirectory struct {
	inner  Directory
	cache  cacheport.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedDirectory(inner Directory, cache cacheport.Cache, ttl time.Duration, logger *slog.Logger) *CachedDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedDirectory{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

var _ Directory = (*CachedDirectory)(nil)

func cacheKey(id string) string { return "userdir:" + id }

func (d *CachedDirectory) FindByID(ctx context.Context, id string) (User, error) {
	if d.cache != nil {
		raw, err := d.cache.Get(ctx, cacheKey(id))
		switch {
		case err == nil:
			var u User
			if jsonErr := json.Unmarshal([]byte(raw), &u); jsonErr == nil {
				return u, nil
			}
			// corrupt entry: fall through to the source of truth
		case errors.Is(err, cacheport.ErrMiss):
			// fall through
		default:
			d.logger.Warn("userdir cache read failed", "user_id", id, "error", err)
		}
	}

	u, err := d.inner.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if d.cache != nil {
		if raw, jsonErr := json.Marshal(u); jsonErr == nil {
			if err := d.cache.Set(ctx, cacheKey(u.ID), string(raw), d.ttl); err != nil {
				d.logger.Warn("userdir cache write failed", "user_id", id, "error", err)
			}
		}
	}
	return u, nil
}
