package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load .env into the process environment if the file exists.
// Variables already set in the environment win.
func Load(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: parse duration %q: %w", key, v, err)
	}
	return d, nil
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// Split a comma separated value, dropping blanks.
func GetList(key, fallback string) []string {
	parts := strings.Split(Get(key, fallback), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
