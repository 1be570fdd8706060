package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"caseboard/api/internal/models"
	"caseboard/api/internal/repository"
)

const (
	allowlistCacheKey = "settings:ip_allowlist"
	allowlistCacheTTL = 5 * time.Minute
)

// SettingsService fronts the system_settings table with a short-lived Redis
// cache; the allowlist is consulted on every admin login.
type SettingsService struct {
	settings *repository.SettingRepository
	cache    *redis.Client
	log      zerolog.Logger
}

func NewSettingsService(settings *repository.SettingRepository, cache *redis.Client, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		settings: settings,
		cache:    cache,
		log:      log,
	}
}

// IPAllowlist returns the global allowlist. A missing setting means no
// restriction (empty list).
func (s *SettingsService) IPAllowlist(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, allowlistCacheKey).Bytes(); err == nil {
			var ips []string
			if err := json.Unmarshal(cached, &ips); err == nil {
				return ips, nil
			}
		}
	}

	value, err := s.settings.Get(ctx, models.SettingIPAllowlist)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var ips []string
	if err := json.Unmarshal(value, &ips); err != nil {
		return nil, fmt.Errorf("decode allowlist: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, allowlistCacheKey, value, allowlistCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("allowlist cache set failed")
		}
	}
	return ips, nil
}

func (s *SettingsService) SetIPAllowlist(ctx context.Context, ips []string) error {
	if ips == nil {
		ips = []string{}
	}
	value, err := json.Marshal(ips)
	if err != nil {
		return fmt.Errorf("encode allowlist: %w", err)
	}
	if err := s.settings.Set(ctx, models.SettingIPAllowlist, value); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, allowlistCacheKey).Err(); err != nil {
			s.log.Warn().Err(err).Msg("allowlist cache invalidation failed")
		}
	}
	return nil
}

// IPAllowed: an empty allowlist allows everything; otherwise the client IP
// must match an entry exactly.
func IPAllowed(ip string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return true
	}
	for _, allowed := range allowlist {
		if allowed == ip {
			return true
		}
	}
	return false
}
