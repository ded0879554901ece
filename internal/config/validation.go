package config

import (
	"fmt"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/errors"
)

// Validate checks structural constraints that defaults cannot repair.
func Validate(cfg *Config) error {
	seen := make(map[string]struct{}, len(cfg.Sections))
	for i, s := range cfg.Sections {
		field := fmt.Sprintf("sections[%d].key", i)
		key := strings.TrimSpace(s.Key)
		if key == "" {
			return ferrors.ValidationFailed(field, "must not be empty")
		}
		if strings.ContainsAny(key, "/\\") || key == "." || key == ".." {
			return ferrors.ValidationFailed(field, "must be a single path segment")
		}
		if _, dup := seen[key]; dup {
			return ferrors.ValidationFailed(field, "duplicate section key "+key)
		}
		seen[key] = struct{}{}
	}

	if cfg.Preview.Port < 1 || cfg.Preview.Port > 65535 {
		return ferrors.ValidationFailed("preview.port", "must be between 1 and 65535")
	}
	if _, err := time.ParseDuration(cfg.Preview.Debounce); err != nil {
		return ferrors.ValidationFailed("preview.debounce", err.Error())
	}
	if cfg.Preview.ResyncInterval != "" {
		d, err := time.ParseDuration(cfg.Preview.ResyncInterval)
		if err != nil {
			return ferrors.ValidationFailed("preview.resync_interval", err.Error())
		}
		if d < time.Second {
			return ferrors.ValidationFailed("preview.resync_interval", "must be at least 1s")
		}
	}
	if cfg.Preview.Retries < 0 {
		return ferrors.ValidationFailed("preview.retries", "must not be negative")
	}
	if cfg.Preview.RetryBackoff != "" && NormalizeRetryBackoff(string(cfg.Preview.RetryBackoff)) == "" {
		return ferrors.ValidationFailed("preview.retry_backoff", "must be fixed, linear or exponential")
	}
	for field, raw := range map[string]string{
		"preview.retry_initial": cfg.Preview.RetryInitial,
		"preview.retry_max":     cfg.Preview.RetryMax,
	} {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			return ferrors.ValidationFailed(field, "must be a positive duration")
		}
	}
	return nil
}
