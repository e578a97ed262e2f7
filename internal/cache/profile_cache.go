package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/thuso-software/veriface/internal/domain"
	"github.com/thuso-software/veriface/internal/repository"
)

const profileKeyPrefix = "veriface:profile:"

// CachedProfiles wraps a profile repository with a read-through cache.
// Embedding writes invalidate the cached entry so the next read sees the
// fresh vector.
type CachedProfiles struct {
	inner  repository.ProfileRepositoryInterface
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProfiles(inner repository.ProfileRepositoryInterface, kv KV, ttl time.Duration, logger *slog.Logger) *CachedProfiles {
	return &CachedProfiles{inner: inner, kv: kv, ttl: ttl, logger: logger}
}

func profileKey(idNumber string) string {
	return profileKeyPrefix + idNumber
}

func (c *CachedProfiles) GetByIDNumber(ctx context.Context, idNumber string) (*domain.Profile, error) {
	key := profileKey(idNumber)

	if raw, err := c.kv.Get(ctx, key); err == nil {
		var profile domain.Profile
		if err := json.Unmarshal([]byte(raw), &profile); err == nil {
			return &profile, nil
		}
		// entrada corrompida, remove e segue para o banco
		_ = c.kv.Del(ctx, key)
	} else if err != ErrMiss {
		c.logger.Warn("profile cache read failed", slog.String("error", err.Error()))
	}

	profile, err := c.inner.GetByIDNumber(ctx, idNumber)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profile); err == nil {
		if err := c.kv.Set(ctx, key, string(raw), c.ttl); err != nil {
			c.logger.Warn("profile cache write failed", slog.String("error", err.Error()))
		}
	}

	return profile, nil
}

func (c *CachedProfiles) Upsert(ctx context.Context, profile *domain.Profile) error {
	if err := c.inner.Upsert(ctx, profile); err != nil {
		return err
	}
	if err := c.kv.Del(ctx, profileKey(profile.IDNumber)); err != nil {
		c.logger.Warn("profile cache invalidation failed", slog.String("error", err.Error()))
	}
	return nil
}

func (c *CachedProfiles) SaveEmbedding(ctx context.Context, idNumber string, embedding []float64) error {
	if err := c.inner.SaveEmbedding(ctx, idNumber, embedding); err != nil {
		return err
	}
	if err := c.kv.Del(ctx, profileKey(idNumber)); err != nil {
		c.logger.Warn("profile cache invalidation failed", slog.String("error", err.Error()))
	}
	return nil
}
