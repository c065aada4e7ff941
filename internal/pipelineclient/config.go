package pipelineclient

import (
	"fmt"
	"os"
	"time"
)

// Config holds the scheduler's connection settings.
type Config struct {
	APIURL         string
	PipelineAPIKey string
	RequestTimeout time.Duration
}

// LoadConfig reads BUILDLEDGER_API_URL, PIPELINE_API_KEY and REQUEST_TIMEOUT.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.APIURL = os.Getenv("BUILDLEDGER_API_URL")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("BUILDLEDGER_API_URL is required")
	}

	cfg.PipelineAPIKey = os.Getenv("PIPELINE_API_KEY")
	if cfg.PipelineAPIKey == "" {
		return nil, fmt.Errorf("PIPELINE_API_KEY is required")
	}

	timeout, err := parseTimeout(os.Getenv("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 2 * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", d)
	}
	return d, nil
}
