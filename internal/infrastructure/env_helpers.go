package infrastructure

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// envOr parses the variable named key with parse, falling back to def when
// it is unset, blank or malformed.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func GetEnvAsInt(key string, defaultValue int) int {
	return envOr(key, defaultValue, strconv.Atoi)
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	return envOr(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvAsDuration accepts Go duration syntax ("90s", "1h").
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	return envOr(key, defaultValue, time.ParseDuration)
}

func GetEnvAsString(key string, defaultValue string) string {
	return envOr(key, defaultValue, func(s string) (string, error) { return s, nil })
}
