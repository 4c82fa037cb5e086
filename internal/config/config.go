package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// NZBGet exposes script options to its scripts as NZBPO_* environment
// variables; the same names are honored here so the sidecar can be
// configured from the host's own settings page.
const (
	envStorageSizeGB   = "NZBPO_STORAGESIZEGB"
	envRefreshInterval = "NZBPO_SCHEDULERREFRESHINTERVAL"
	envListenAddr      = "CAPQ_ADDR"
	envLogFile         = "CAPQ_LOG_FILE"
)

const defaultRefreshInterval = 15 * time.Second

var (
	ErrMissingStorageSize = errors.New("StorageSizeGB is missing from the configuration")
	ErrBadStorageSize     = errors.New("StorageSizeGB must be a positive integer")
	ErrBadRefreshInterval = errors.New("SchedulerRefreshInterval must be at least 1 second")
)

// Config holds the process-wide settings. It is loaded once at startup and
// read-only afterwards.
type Config struct {
	// CapacityBytes is the storage budget shared by all non-paused downloads.
	CapacityBytes int64
	// RefreshInterval is the pause between the end of one scheduling pass
	// and the start of the next.
	RefreshInterval time.Duration
	// ListenAddr is the bind address of the HTTP surface.
	ListenAddr string
	// LogFile enables rotated JSON file logging when non-empty.
	LogFile string
}

// FromEnv loads and validates the configuration. A missing or invalid
// storage budget is a hard error: running without a defined cap would
// silently admit everything.
func FromEnv() (*Config, error) {
	raw := os.Getenv(envStorageSizeGB)
	if raw == "" {
		return nil, ErrMissingStorageSize
	}
	gb, err := strconv.Atoi(raw)
	if err != nil || gb <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadStorageSize, raw)
	}

	interval := defaultRefreshInterval
	if v := os.Getenv(envRefreshInterval); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("%w: %q", ErrBadRefreshInterval, v)
		}
		interval = time.Duration(secs) * time.Second
	}

	addr := os.Getenv(envListenAddr)
	if addr == "" {
		addr = ":9092"
	}

	return &Config{
		CapacityBytes:   int64(gb) << 30,
		RefreshInterval: interval,
		ListenAddr:      addr,
		LogFile:         os.Getenv(envLogFile),
	}, nil
}
