package cache

import (
	"context"
	"os"
	"testing"

	"github.com/ghuser/volunteerhub/pkg/config"
)

func TestClientOptions(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{"host and port", "redis://localhost:6379", "localhost:6379", 0, false},
		{"database index", "redis://cache.internal:6380/3", "cache.internal:6380", 3, false},
		{"not a url", "not-a-valid-url", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := clientOptions(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("clientOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB {
				t.Errorf("addr/db = %s/%d, want %s/%d", opts.Addr, opts.DB, tt.wantAddr, tt.wantDB)
			}
			if opts.PoolSize != 10 || opts.MaxRetries != 3 {
				t.Errorf("pool settings not applied: %+v", opts)
			}
		})
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	if _, err := NewRedisClient(&config.Config{RedisURL: "redis://localhost:19999"}); err == nil {
		t.Fatal("expected error when Redis is unreachable")
	}
}

func TestRedisClient_CloseNil(t *testing.T) {
	var rc *RedisClient
	if err := rc.Close(); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}

// Skipped unless REDIS_URL is set.
func TestRedisClient_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	rc, err := NewRedisClient(&config.Config{RedisURL: url})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	if err := rc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if rc.Client() == nil {
		t.Fatal("Client() = nil")
	}
}
