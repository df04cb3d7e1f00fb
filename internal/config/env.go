package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/titanous/json5"
)

func (c *Config) applyEnvOverrides() error {
	if v, ok := lookupEnv("BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := lookupEnv("BACKEND_URL"); ok {
		c.BackendURL = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"TIMEOUT", &c.Timeout},
		{"RETRY_ATTEMPTS", &c.RetryAttempts},
		{"RETRY_DELAY", &c.RetryDelay},
	}
	for _, i := range ints {
		v, ok := lookupEnv(i.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, i.key, v, err)
		}
		*i.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"DEBUG_MODE", &c.DebugMode},
		{"SAVE_HTML", &c.SaveHTML},
	}
	for _, b := range bools {
		v, ok := lookupEnv(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, b.key, v, err)
		}
		*b.dst = parsed
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{"REGIONS", &c.Regions},
		{"PLATFORMS", &c.Platforms},
		{"GAMEMODES", &c.Gamemodes},
		{"MAPS", &c.Maps},
		{"TIERS", &c.Tiers},
	}
	for _, l := range lists {
		v, ok := lookupEnv(l.key)
		if !ok {
			continue
		}
		parsed, err := parseList(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, l.key, err)
		}
		*l.dst = parsed
	}

	if v, ok := lookupEnv("RATE_LIMIT_DELAY"); ok {
		parsed, err := parseDelayPair(v)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT_DELAY %q: %w", EnvPrefix, v, err)
		}
		c.RateLimitDelay = parsed
	}

	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		v, ok = os.LookupEnv(strings.ToLower(EnvPrefix + key))
	}
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// parseList accepts a JSON array or a comma separated list.
func parseList(v string) ([]string, error) {
	if strings.HasPrefix(v, "[") {
		var out []string
		if err := json5.Unmarshal([]byte(v), &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

func parseDelayPair(v string) ([]float64, error) {
	if strings.HasPrefix(v, "[") || strings.HasPrefix(v, "(") {
		v = strings.Trim(v, "[]()")
	}

	var out []float64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 || len(out) > 2 {
		return nil, fmt.Errorf("expected one or two values, got %d", len(out))
	}
	return out, nil
}
