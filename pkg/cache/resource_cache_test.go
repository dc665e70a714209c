package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/volunteerhub/pkg/config"
)

func TestResourceHashEncoding(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	in := &CachedResource{
		ID:                uuid.New(),
		OrganizationID:    uuid.New(),
		Name:              "Generator",
		QuantityTotal:     1,
		QuantityAvailable: 0,
		SerialNumber:      "G-7",
		IsReturnable:      true,
		Status:            "in_use",
		CustodySeq:        4,
		CreatedAt:         now,
		UpdatedAt:         now.Add(time.Hour),
	}

	fields := encodeResource(in)
	vals := make(map[string]string, len(fields))
	for k, v := range fields {
		vals[k] = v.(string)
	}

	out, err := decodeResource(vals)
	if err != nil {
		t.Fatalf("decodeResource: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Fatalf("timestamps: got %v/%v", out.CreatedAt, out.UpdatedAt)
	}
	out.CreatedAt, out.UpdatedAt = in.CreatedAt, in.UpdatedAt
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	t.Run("corrupt hash", func(t *testing.T) {
		vals["quantity_total"] = "many"
		if _, err := decodeResource(vals); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestResourceCacheIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	rc, err := NewRedisClient(&config.Config{RedisURL: redisURL})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	ctx := context.Background()
	c := NewResourceCache(rc)
	r := &CachedResource{ID: uuid.New(), OrganizationID: uuid.New(), Name: "Cots", QuantityTotal: 5, QuantityAvailable: 5, Status: "available", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}

	if err := c.Set(ctx, r); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Cots" || got.QuantityAvailable != 5 {
		t.Fatalf("got %+v", got)
	}
	if err := c.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, r.ID); !errors.Is(err, redis.Nil) {
		t.Fatalf("Get after Delete = %v, want redis.Nil", err)
	}
}
