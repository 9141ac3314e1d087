package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // TRELLIS_DATABASE_URL (required)
	HTTPAddr    string // TRELLIS_HTTP_ADDR (default ":8080")
	GRPCAddr    string // TRELLIS_GRPC_ADDR (default ":9090", health probes)
	NATSURL     string // TRELLIS_NATS_URL (optional, empty = no events)
	AuthToken   string // TRELLIS_AUTH_TOKEN (optional, empty = auth disabled)

	// Engine settings
	MaxCycles     int     // TRELLIS_MAX_CYCLES (default 100)
	MinConfidence float64 // TRELLIS_MIN_CONFIDENCE (default 0.6)

	// Snapshot export settings
	SnapshotInterval   time.Duration // TRELLIS_SNAPSHOT_INTERVAL (default 0 = disabled)
	SnapshotS3Bucket   string        // TRELLIS_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // TRELLIS_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // TRELLIS_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // TRELLIS_SNAPSHOT_S3_KEY (default "trellis/graph.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("TRELLIS_DATABASE_URL"),
		HTTPAddr:           envOrDefault("TRELLIS_HTTP_ADDR", ":8080"),
		GRPCAddr:           envOrDefault("TRELLIS_GRPC_ADDR", ":9090"),
		NATSURL:            os.Getenv("TRELLIS_NATS_URL"),
		AuthToken:          os.Getenv("TRELLIS_AUTH_TOKEN"),
		SnapshotS3Bucket:   os.Getenv("TRELLIS_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint: os.Getenv("TRELLIS_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:   envOrDefault("TRELLIS_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:      envOrDefault("TRELLIS_SNAPSHOT_S3_KEY", "trellis/graph.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TRELLIS_DATABASE_URL is required")
	}

	maxCycles := envOrDefault("TRELLIS_MAX_CYCLES", "100")
	n, err := strconv.Atoi(maxCycles)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("TRELLIS_MAX_CYCLES: must be a positive integer, got %q", maxCycles)
	}
	c.MaxCycles = n

	minConf := envOrDefault("TRELLIS_MIN_CONFIDENCE", "0.6")
	f, err := strconv.ParseFloat(minConf, 64)
	if err != nil || f < 0 || f > 1 {
		return nil, fmt.Errorf("TRELLIS_MIN_CONFIDENCE: must be between 0 and 1, got %q", minConf)
	}
	c.MinConfidence = f

	if intervalStr := os.Getenv("TRELLIS_SNAPSHOT_INTERVAL"); intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("TRELLIS_SNAPSHOT_INTERVAL: %w", err)
		}
		c.SnapshotInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
