package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	RawDir    string // directory of monthly/yearly archive files
	OutputDir string // directory receiving one CSV per cell
	CellsPath string // cell geometry source (.shp or .csv)

	CellNameField string // shapefile attribute carrying the cell name
	Years         []int  // empty means discover from RawDir
	Workers       int    // parallel cells; 1 reproduces sequential order
	GridRefFigs   int    // precision for derived cell names

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Completion-event publishing (optional).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	years, err := parseYears(os.Getenv("YEARS"))
	if err != nil {
		return nil, err
	}

	workers, err := parsePositiveInt("WORKERS", 1, 256)
	if err != nil {
		return nil, err
	}

	figs, err := parseGridRefFigs()
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	kafkaBrokers := splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		RawDir:    os.Getenv("RAW_DIR"),
		OutputDir: os.Getenv("OUTPUT_DIR"),
		CellsPath: os.Getenv("CELLS_PATH"),

		CellNameField: envOrDefault("CELL_NAME_FIELD", "tile_name"),
		Years:         years,
		Workers:       workers,
		GridRefFigs:   figs,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "cell-series-completed"),
	}

	if cfg.RawDir == "" {
		return nil, errors.New("RAW_DIR is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.CellsPath == "" {
		return nil, errors.New("CELLS_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// parseYears accepts either a range ("2016-2022") or a comma-separated
// list ("2016,2018,2020"). Empty means discover from the archive directory.
func parseYears(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		first, err1 := strconv.Atoi(strings.TrimSpace(lo))
		last, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil || first > last {
			return nil, fmt.Errorf("invalid YEARS range %q", s)
		}
		years := make([]int, 0, last-first+1)
		for y := first; y <= last; y++ {
			years = append(years, y)
		}
		return years, nil
	}

	var years []int
	for _, part := range strings.Split(s, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid YEARS value %q", s)
		}
		years = append(years, y)
	}
	return years, nil
}

func parseGridRefFigs() (int, error) {
	s := os.Getenv("GRID_REF_FIGS")
	if s == "" {
		return 4, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid GRID_REF_FIGS %q", s)
	}
	switch n {
	case 4, 6, 8, 10:
		return n, nil
	}
	return 0, fmt.Errorf("GRID_REF_FIGS must be 4, 6, 8 or 10, got %d", n)
}

func parsePositiveInt(key string, def, max int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("%s must be between 1 and %d", key, max)
	}
	return n, nil
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
